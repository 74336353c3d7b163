package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/followup-tx/internal/domain"
	"github.com/jsamuelsen11/followup-tx/internal/domain/tracking"
	"github.com/jsamuelsen11/followup-tx/internal/ports"
)

const defaultEvent = "CFP=Submitted to the CFP"

func bootstrapCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the entity and its activity log if they do not exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, e, err := openEnv(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.close()

			created, err := e.svc.Bootstrap(ctx, e.key, e.seed())
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "created %s and %s\n", e.key, tracking.KeysFor(e.key).Activities)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already bootstrapped\n", e.key)
			}
			return nil
		},
	}
}

func followupCmd(flags *globalFlags) *cobra.Command {
	var rawEvents []string
	var forceRollback bool

	c := &cobra.Command{
		Use:   "followup",
		Short: "Record follow-up events and bump the counter in one transaction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			events, err := parseEvents(rawEvents)
			if err != nil {
				return err
			}

			ctx, e, err := openEnv(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.close()

			pair, err := e.svc.RecordFollowup(ctx, ports.FollowupRequest{
				Key:           e.key,
				Events:        events,
				ForceRollback: forceRollback,
			})
			if err != nil {
				return fmt.Errorf("transaction failed: %w", err)
			}
			return printPair(cmd.OutOrStdout(), pair)
		},
	}

	c.Flags().StringArrayVar(&rawEvents, "event", []string{defaultEvent},
		"event as TYPE=DESCRIPTION; repeat for several events in one transaction")
	c.Flags().BoolVar(&forceRollback, "force-rollback", false,
		"abort after staging both replaces; nothing is committed")
	return c
}

func showCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the committed entity and activity log documents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, e, err := openEnv(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.close()

			pair, err := e.svc.Get(ctx, e.key)
			if err != nil {
				return err
			}
			return printPair(cmd.OutOrStdout(), pair)
		},
	}
}

// parseEvents turns TYPE=DESCRIPTION flag values into event inputs. The
// description may itself contain '='.
func parseEvents(raw []string) ([]tracking.EventInput, error) {
	events := make([]tracking.EventInput, 0, len(raw))
	fields := map[string]string{}
	for i, r := range raw {
		typ, desc, ok := strings.Cut(r, "=")
		typ = strings.TrimSpace(typ)
		if !ok || typ == "" {
			fields[fmt.Sprintf("event[%d]", i)] = "must be TYPE=DESCRIPTION"
			continue
		}
		events = append(events, tracking.EventInput{Type: typ, Description: desc})
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}
	return events, nil
}

// printPair writes both documents as stored, indented, one after the other.
func printPair(w io.Writer, pair *tracking.Pair) error {
	entity, err := tracking.EncodeEntity(pair.Entity)
	if err != nil {
		return err
	}
	activities, err := tracking.EncodeActivityLog(pair.Activities)
	if err != nil {
		return err
	}

	for _, doc := range [][]byte{entity, activities} {
		var buf bytes.Buffer
		if err := json.Indent(&buf, doc, "", "  "); err != nil {
			return fmt.Errorf("formatting document: %w", err)
		}
		buf.WriteByte('\n')
		if _, err := buf.WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}
