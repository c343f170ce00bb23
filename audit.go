package boxprice

import "time"

// AuditFields are the listing attributes cross-checked against the master
// catalog, in report order.
var AuditFields = []string{"brand", "line", "wrapper", "vitola", "size"}

// Audit issue types.
const (
	AuditOrphanedCID      = "orphaned_cid"
	AuditMetadataMismatch = "metadata_mismatch"
)

// AuditMismatch is one inconsistency between a listing row and the master
// catalog, attributed to a specific field and retailer.
type AuditMismatch struct {
	Retailer      string `json:"retailer"`
	CID           string `json:"cid"`
	IssueType     string `json:"issueType"`
	Field         string `json:"field"`
	RetailerValue string `json:"retailerValue"`
	MasterValue   string `json:"masterValue"`
}

// RetailerAudit summarizes one listing store's consistency check.
type RetailerAudit struct {
	Retailer          string         `json:"retailer"`
	Products          int            `json:"products"`
	MissingCIDs       int            `json:"missingCids"`
	OrphanedCIDs      int            `json:"orphanedCids"`
	MismatchesByField map[string]int `json:"mismatchesByField"`

	// ContentHash pins the exact store revision the audit observed.
	ContentHash uint64 `json:"contentHash"`

	// Unreadable stores are logged and excluded from totals, not fatal.
	Unreadable bool   `json:"unreadable"`
	ReadError  string `json:"readError,omitempty"`
}

// TotalIssues is the store's absolute issue volume.
func (r *RetailerAudit) TotalIssues() int {
	n := r.MissingCIDs + r.OrphanedCIDs
	for _, c := range r.MismatchesByField {
		n += c
	}
	return n
}

// AuditFix is one entry in the priority-ordered fix list. Priority is the
// issue rate weighted by product count, i.e. absolute issue volume weighted
// by how broadly a fix would matter.
type AuditFix struct {
	Retailer string  `json:"retailer"`
	Products int     `json:"products"`
	Issues   int     `json:"issues"`
	Priority float64 `json:"priority"`
}

// AuditReport is the advisory output of a consistency audit. Producing it
// never mutates any store.
type AuditReport struct {
	ID          string           `json:"id"`
	GeneratedAt time.Time        `json:"generatedAt"`
	MasterCIDs  int              `json:"masterCids"`
	Retailers   []*RetailerAudit `json:"retailers"`
	Mismatches  []*AuditMismatch `json:"mismatches"`
	FixList     []*AuditFix      `json:"fixList"` // sorted by priority, descending
}

// TotalIssues sums issue volume across all readable stores.
func (r *AuditReport) TotalIssues() int {
	n := 0
	for _, ra := range r.Retailers {
		if ra.Unreadable {
			continue
		}
		n += ra.TotalIssues()
	}
	return n
}
