package movement

import (
	"fmt"
	"time"
)

// Prefix is the three-letter tag of a transaction reference.
type Prefix string

const (
	PrefixCreate      Prefix = "CRE"
	PrefixEdit        Prefix = "MAJ"
	PrefixConsumption Prefix = "CON"
	PrefixEntry       Prefix = "ENT"
	PrefixExit        Prefix = "SOR"
	PrefixInventory   Prefix = "INV"
	PrefixImport      Prefix = "IMP"
)

// NewRef formats <PREFIX>-<unix ms>. Two calls in the same millisecond collide;
// the ref is a trace tag grouping rows of one operation, not a key.
func NewRef(prefix Prefix, now time.Time) string {
	return fmt.Sprintf("%s-%d", prefix, now.UnixMilli())
}
