package knowledge

import (
	"fmt"

	"leaf-analyze-service/models"
)

// Canonical display names for the four classes the classifier distinguishes.
const (
	DiseaseHealthy  = "Healthy"
	DiseaseBlight   = "Northern Corn Leaf Blight"
	DiseaseRust     = "Common Rust"
	DiseaseGraySpot = "Gray Leaf Spot"
)

// rawNameMap maps the raw class labels carried by model artifacts
// (training directory names) to canonical display names.
var rawNameMap = map[string]string{
	"Blight":         DiseaseBlight,
	"Common_Rust":    DiseaseRust,
	"Gray_Leaf_Spot": DiseaseGraySpot,
	"Healthy":        DiseaseHealthy,
}

// Base is the read-only disease knowledge base. It is built once at
// startup and safe for concurrent readers without locking.
type Base struct {
	records []models.DiseaseRecord
	byName  map[string]int
}

// NewBase builds the closed set of disease records. The record order is
// stable and used as display order for catalog endpoints.
func NewBase() *Base {
	b := &Base{
		records: seedRecords(),
		byName:  make(map[string]int),
	}
	for i, r := range b.records {
		b.byName[r.Name] = i
	}
	return b
}

// Describe returns a copy of the record for the given canonical disease
// name. The boolean reports whether the name belongs to the closed set.
func (b *Base) Describe(name string) (models.DiseaseRecord, bool) {
	i, ok := b.byName[name]
	if !ok {
		return models.DiseaseRecord{}, false
	}
	return copyRecord(b.records[i]), true
}

// All returns copies of every disease record in display order.
func (b *Base) All() []models.DiseaseRecord {
	out := make([]models.DiseaseRecord, len(b.records))
	for i, r := range b.records {
		out[i] = copyRecord(r)
	}
	return out
}

// AllTreatments returns the distinct nanoparticle treatments across all
// diseases, ordered by first appearance. Distinctness is by full entry:
// the same particle can appear for two diseases at different
// concentrations and both variants are kept.
func (b *Base) AllTreatments() []models.NanoTreatment {
	seen := make(map[models.NanoTreatment]bool)
	var out []models.NanoTreatment
	for _, r := range b.records {
		for _, t := range r.Treatments {
			if seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// Len returns the number of classes in the knowledge base.
func (b *Base) Len() int {
	return len(b.records)
}

// ResolveRawClass maps a raw model class label to its canonical display
// name. Unknown labels are returned as-is so lookup failure surfaces in
// Describe rather than silently matching a wrong record.
func ResolveRawClass(raw string) string {
	if name, ok := rawNameMap[raw]; ok {
		return name
	}
	return raw
}

// ValidateClasses checks an ordered model class list against the
// knowledge base: every label must resolve to a known record and the
// counts must match exactly. Called once at startup, fails fast.
func (b *Base) ValidateClasses(rawClasses []string) error {
	if len(rawClasses) != len(b.records) {
		return fmt.Errorf("model has %d classes, knowledge base has %d", len(rawClasses), len(b.records))
	}
	seen := make(map[string]bool)
	for i, raw := range rawClasses {
		name := ResolveRawClass(raw)
		if _, ok := b.byName[name]; !ok {
			return fmt.Errorf("model class %d %q does not match any known disease", i, raw)
		}
		if seen[name] {
			return fmt.Errorf("model class %d %q duplicates an earlier class", i, raw)
		}
		seen[name] = true
	}
	return nil
}

func copyRecord(r models.DiseaseRecord) models.DiseaseRecord {
	out := r
	out.Treatments = make([]models.NanoTreatment, len(r.Treatments))
	copy(out.Treatments, r.Treatments)
	return out
}
