package ingest

// StastRecord is an alignment-hit row from the STAST tool. Append-only: no
// natural primary key, no conflict handling.
type StastRecord struct {
	Task       string  `json:"task"`
	SampleID   string  `json:"sample_id"`
	Qseqid     string  `json:"qseqid"`
	Sseqid     string  `json:"sseqid"`
	Stitle     string  `json:"stitle"`
	Sscinames  string  `json:"sscinames"`
	Staxids    string  `json:"staxids"`
	Rank       string  `json:"rank"`
	Qlen       int64   `json:"qlen"`
	Length     int64   `json:"length"`
	Pident     float64 `json:"pident"`
	Evalue     float64 `json:"evalue"`
	Bitscore   float64 `json:"bitscore"`
}

var stastColumns = []string{
	"task", "sample_id", "qseqid", "sseqid", "stitle", "sscinames", "staxids", "rank",
	"qlen", "length", "pident", "evalue", "bitscore",
}

func (r StastRecord) TableName() string     { return "stast_results" }
func (r StastRecord) ColumnNames() []string { return stastColumns }
func (r StastRecord) FieldCount() int       { return len(stastColumns) }

func (r StastRecord) Bind(args []any) []any {
	return append(args,
		r.Task, r.SampleID, r.Qseqid, r.Sseqid, r.Stitle, r.Sscinames, r.Staxids, r.Rank,
		r.Qlen, r.Length, r.Pident, r.Evalue, r.Bitscore,
	)
}

// Validate reports whether every required field is present.
func (r StastRecord) Validate() error {
	switch {
	case r.Task == "":
		return errMissingField("task")
	case r.SampleID == "":
		return errMissingField("sample_id")
	case r.Qseqid == "":
		return errMissingField("qseqid")
	case r.Sseqid == "":
		return errMissingField("sseqid")
	}
	return nil
}
