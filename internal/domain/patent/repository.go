package patent

import "context"

// HolderRepository persists PatentHolder rows.
type HolderRepository interface {
	Create(ctx context.Context, h *PatentHolder) error
	// SearchByHolder matches pattern case-insensitively as a regular
	// expression against patent_holder.
	SearchByHolder(ctx context.Context, pattern string, limit, offset int) ([]*PatentHolder, int64, error)
}

//Personal.AI order the ending
