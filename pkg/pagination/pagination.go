package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 20
	// MaxLimit caps how many rows any listing can request.
	MaxLimit = 100
)

// Params holds skip/limit pagination inputs from controllers. The backend
// paginates by offset, so cursors are not used here.
type Params struct {
	Skip  int
	Limit int
}

// Normalize clamps the inputs to sane values.
func Normalize(p Params) Params {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}
