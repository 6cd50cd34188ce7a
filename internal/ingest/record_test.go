package ingest

import "testing"

func TestGenericRecord_BindMatchesColumnOrder(t *testing.T) {
	r := GenericRecord{
		RunID: "r1", TaskID: "t1", Shard: 3, IdempotencyKey: "k1",
		SchemaVersion: 2, Payload: []byte(`{"x":1}`),
	}
	args := r.Bind(nil)
	if len(args) != r.FieldCount() {
		t.Fatalf("Bind produced %d args, want %d (len(ColumnNames))", len(args), r.FieldCount())
	}
	if got := args[0]; got != "r1" {
		t.Errorf("args[0] = %v, want run_id value r1", got)
	}
	if got := args[2]; got != int64(3) {
		t.Errorf("args[2] = %v, want shard value 3", got)
	}
}

func TestGenericRecord_Validate(t *testing.T) {
	cases := []struct {
		name string
		rec  GenericRecord
		want bool
	}{
		{"valid", GenericRecord{RunID: "r", TaskID: "t", IdempotencyKey: "k", Payload: []byte("{}")}, true},
		{"missing run_id", GenericRecord{TaskID: "t", IdempotencyKey: "k", Payload: []byte("{}")}, false},
		{"missing payload", GenericRecord{RunID: "r", TaskID: "t", IdempotencyKey: "k"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.rec.Validate()
			if (err == nil) != tc.want {
				t.Errorf("Validate() err = %v, want valid=%v", err, tc.want)
			}
		})
	}
}

func TestGenericRecord_ConflictClause(t *testing.T) {
	var r GenericRecord
	if r.ConflictClause() == "" {
		t.Fatal("expected a non-empty conflict clause for the generic stream")
	}
}

func TestGottcha2Record_ColumnsAndFieldCountAgree(t *testing.T) {
	var r Gottcha2Record
	if r.FieldCount() != len(r.ColumnNames()) {
		t.Fatalf("FieldCount() = %d, len(ColumnNames()) = %d", r.FieldCount(), len(r.ColumnNames()))
	}
	args := r.Bind(nil)
	if len(args) != r.FieldCount() {
		t.Fatalf("Bind produced %d args, want %d", len(args), r.FieldCount())
	}
}

func TestStastRecord_ColumnsAndFieldCountAgree(t *testing.T) {
	var r StastRecord
	if r.FieldCount() != len(r.ColumnNames()) {
		t.Fatalf("FieldCount() = %d, len(ColumnNames()) = %d", r.FieldCount(), len(r.ColumnNames()))
	}
	args := r.Bind(nil)
	if len(args) != r.FieldCount() {
		t.Fatalf("Bind produced %d args, want %d", len(args), r.FieldCount())
	}
}

func TestStastRecord_Validate(t *testing.T) {
	valid := StastRecord{Task: "t", SampleID: "s", Qseqid: "q", Sseqid: "s2"}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
	missing := StastRecord{SampleID: "s"}
	if err := missing.Validate(); err == nil {
		t.Error("Validate() = nil, want error for missing task")
	}
}
