package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/hamba/avro/v2"
	"github.com/twmb/franz-go/pkg/sr"
)

var (
	ErrTooFewOpts = errors.New("too few options")
)

type Serde interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

// AvroEncodeFn returns a plain avro encoder, without the registry header.
func AvroEncodeFn(s avro.Schema) func(v any) ([]byte, error) {
	return func(v any) ([]byte, error) {
		return avro.Marshal(s, v)
	}
}

// AvroDecodeFn returns a plain avro decoder; v must be a pointer.
func AvroDecodeFn(s avro.Schema) func(data []byte, v any) error {
	return func(data []byte, v any) error {
		return avro.Unmarshal(s, data, v)
	}
}

type Opt func(*options) error

type options struct {
	subject string
	si      SchemaIdentifier
}

func (o options) complete() bool {
	return o.subject != "" && o.si != nil
}

func SubjectOpt(subject string) Opt {
	return func(o *options) error {
		if subject == "" {
			return errors.New("subject is empty string")
		}
		o.subject = subject
		return nil
	}
}

func SchemaIdentifierOpt(si SchemaIdentifier) Opt {
	return func(o *options) error {
		if si == nil {
			return errors.New("schema identifier is nil")
		}
		o.si = si
		return nil
	}
}

// NewSerdeActivityV1 registers the activity schema and returns a serde
// that frames payloads with the registry wire header. Both options are
// required.
func NewSerdeActivityV1(ctx context.Context, opts ...Opt) (Serde, error) {
	const op = "NewSerdeActivityV1"

	s, err := newRegistrySerde(ctx, ActivitySchemaTextV1, ActivityV1{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// newRegistrySerde binds one avro schema to the registry id of its
// subject. Values of other types than example's are rejected by
// [sr.Serde].
func newRegistrySerde(
	ctx context.Context, schemaText string, example any, opts []Opt,
) (*sr.Serde, error) {
	var o options
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	if !o.complete() {
		return nil, ErrTooFewOpts
	}

	avroSchema, err := avro.Parse(schemaText)
	if err != nil {
		return nil, err
	}

	id, err := o.si.DetermineID(ctx, o.subject, schemaText)
	if err != nil {
		return nil, err
	}

	var s sr.Serde
	s.Register(
		id,
		example,
		sr.EncodeFn(AvroEncodeFn(avroSchema)),
		sr.DecodeFn(AvroDecodeFn(avroSchema)),
	)
	return &s, nil
}
