package types

// Material is a product type definition controlling per-pallet capacity and
// batching rules. Materials are created and edited by an administrator and
// never deleted; retiring one means clearing Active.
type Material struct {
	Code            string // unique key
	Description     string
	MaxQty          int    // per-pallet capacity; 0 disables automatic finalization
	Prefix          string // pallet id prefix, may be empty
	AllowIncomplete bool   // manual early closure permitted
	Active          bool
}
