package txctx

import (
	"context"
	"fmt"

	"github.com/jsamuelsen11/followup-tx/internal/ports"
)

// Versioned is a decoded document together with the stored document it was
// decoded from. Doc carries the version token that guards a later replace.
type Versioned[T any] struct {
	Doc   ports.Document
	Value T
}

// Decoder converts a persisted body into a typed value.
type Decoder[T any] func([]byte) (T, error)

// Encoder converts a typed value into a persisted body.
type Encoder[T any] func(T) ([]byte, error)

// DocumentProvider returns a DataProvider that reads key through the unit
// and decodes it.
func DocumentProvider[T any](uc *UnitContext, key string, decode Decoder[T]) *DataProvider[Versioned[T]] {
	return NewDataProvider(key, func(ctx context.Context) (Versioned[T], error) {
		doc, err := uc.unit.Get(ctx, key)
		if err != nil {
			return Versioned[T]{}, fmt.Errorf("reading %s: %w", key, err)
		}
		v, err := decode(doc.Body)
		if err != nil {
			return Versioned[T]{}, fmt.Errorf("decoding %s: %w", key, err)
		}
		return Versioned[T]{Doc: doc, Value: v}, nil
	})
}

// GetDocument reads and decodes key inside the unit, memoised per attempt.
func GetDocument[T any](uc *UnitContext, key string, decode Decoder[T]) (Versioned[T], error) {
	return DocumentProvider(uc, key, decode).Get(uc)
}

// StageReplace encodes value and stages a replace of doc guarded by
// doc.Version. Later reads of doc.Key in the same attempt return value.
func StageReplace[T any](uc *UnitContext, doc ports.Document, value T, encode Encoder[T]) error {
	body, err := encode(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", doc.Key, err)
	}
	return uc.Stage(doc.Key, Versioned[T]{Doc: doc, Value: value}, &ReplaceAction{
		Unit: uc.unit,
		Doc:  doc,
		Body: body,
	})
}
