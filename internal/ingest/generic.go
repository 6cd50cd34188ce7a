package ingest

import "encoding/json"

// GenericRecord is the generic-result stream record: a client-addressed
// result keyed by (run_id, task_id, shard), carrying an arbitrary JSON
// payload and a client-supplied idempotency key.
type GenericRecord struct {
	RunID          string          `json:"run_id"`
	TaskID         string          `json:"task_id"`
	Shard          int64           `json:"shard"`
	IdempotencyKey string          `json:"idempotency_key"`
	SchemaVersion  int             `json:"schema_version"`
	Payload        json.RawMessage `json:"payload"`
}

var genericColumns = []string{
	"run_id", "task_id", "shard", "idempotency_key", "schema_version", "payload",
}

func (r GenericRecord) TableName() string     { return "generic_results" }
func (r GenericRecord) ColumnNames() []string { return genericColumns }
func (r GenericRecord) FieldCount() int       { return len(genericColumns) }

func (r GenericRecord) Bind(args []any) []any {
	return append(args, r.RunID, r.TaskID, r.Shard, r.IdempotencyKey, r.SchemaVersion, []byte(r.Payload))
}

// ConflictClause ignores inserts that collide on the primary identity
// (run_id, task_id, shard) or on the unique idempotency_key. A bare DO
// NOTHING (no arbiter) covers both constraints with one clause since either
// violation is non-fatal per the generic stream's retry contract.
func (r GenericRecord) ConflictClause() string {
	return "ON CONFLICT DO NOTHING"
}

// Validate reports whether every required field is present and well-typed
// enough to insert. Called by the decoder immediately after unmarshalling.
func (r GenericRecord) Validate() error {
	switch {
	case r.RunID == "":
		return errMissingField("run_id")
	case r.TaskID == "":
		return errMissingField("task_id")
	case r.IdempotencyKey == "":
		return errMissingField("idempotency_key")
	case len(r.Payload) == 0:
		return errMissingField("payload")
	}
	return nil
}
