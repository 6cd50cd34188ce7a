package ingest

// Gottcha2Record is a taxonomic-abundance row from the GOTTCHA2 classifier.
// Append-only: no natural primary key, no conflict handling.
type Gottcha2Record struct {
	SampleID       string  `json:"sample_id"`
	Level          string  `json:"level"`
	Name           string  `json:"name"`
	Taxid          string  `json:"taxid"`
	ReadCount      int64   `json:"read_count"`
	TotalBpMapped  int64   `json:"total_bp_mapped"`
	CoveredSigLen  int64   `json:"covered_sig_len"`
	AniCI95        float64 `json:"ani_ci95"`
	BestSigCov     float64 `json:"best_sig_cov"`
	Depth          float64 `json:"depth"`
	RelAbundance   float64 `json:"rel_abundance"`
}

var gottcha2Columns = []string{
	"sample_id", "level", "name", "taxid",
	"read_count", "total_bp_mapped", "covered_sig_len",
	"ani_ci95", "best_sig_cov", "depth", "rel_abundance",
}

func (r Gottcha2Record) TableName() string     { return "gottcha2_results" }
func (r Gottcha2Record) ColumnNames() []string { return gottcha2Columns }
func (r Gottcha2Record) FieldCount() int       { return len(gottcha2Columns) }

func (r Gottcha2Record) Bind(args []any) []any {
	return append(args,
		r.SampleID, r.Level, r.Name, r.Taxid,
		r.ReadCount, r.TotalBpMapped, r.CoveredSigLen,
		r.AniCI95, r.BestSigCov, r.Depth, r.RelAbundance,
	)
}

// Validate reports whether every required field is present.
func (r Gottcha2Record) Validate() error {
	switch {
	case r.SampleID == "":
		return errMissingField("sample_id")
	case r.Level == "":
		return errMissingField("level")
	case r.Name == "":
		return errMissingField("name")
	case r.Taxid == "":
		return errMissingField("taxid")
	}
	return nil
}
