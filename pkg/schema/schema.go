package schema

import (
	"context"
	"fmt"
	"time"

	"github.com/hamba/avro/v2"
	"github.com/twmb/franz-go/pkg/sr"
)

const ActivitySchemaTextV1 = `{
	"type": "record",
	"namespace": "shopadmin",
	"name": "activity",
	"fields" : [
		{"name": "id", "type": "string"},
		{"name": "username", "type": "string"},
		{"name": "action", "type": "string"},
		{"name": "product_id", "type": "long", "default": 0},
		{"name": "product_name", "type": "string", "default": ""},
		{"name": "occurred_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

type ActivityV1 struct {
	ID          string    `avro:"id"`
	Username    string    `avro:"username"`
	Action      string    `avro:"action"`
	ProductID   int64     `avro:"product_id"`
	ProductName string    `avro:"product_name"`
	OccurredAt  time.Time `avro:"occurred_at"`
}

func ActivityV1Avro() avro.Schema {
	return avro.MustParse(ActivitySchemaTextV1)
}

// A SchemaIdentifier resolves the registry id of a schema under a subject,
// registering the schema when the subject does not know it yet.
type SchemaIdentifier interface {
	DetermineID(ctx context.Context, subject, avroSchemaText string) (int, error)
}

type registryIdentifier struct {
	client *sr.Client
}

func NewSchemaIdentifier(client *sr.Client) SchemaIdentifier {
	if client == nil {
		panic("NewSchemaIdentifier: client is nil") // develop mistake
	}
	return registryIdentifier{client: client}
}

func (ri registryIdentifier) DetermineID(
	ctx context.Context, subject, avroSchemaText string,
) (int, error) {
	const op = "registryIdentifier.DetermineID"

	ss, err := ri.client.CreateSchema(
		ctx, subject, sr.Schema{Schema: avroSchemaText, Type: sr.TypeAvro},
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return ss.ID, nil
}
