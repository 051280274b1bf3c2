// Package wireframe derives per-vertex wireframe texture labels for a
// triangle mesh: boundary edges are traced into cycles, cut into groups and
// labelled so a shader can rebuild the boundary from one-hot UV components.
package wireframe

import "github.com/pkg/errors"

// Errors
var (
	ErrNoFeasibleLabeling      = errors.New("no feasible labeling with every boundary edge isolated")
	ErrDuplicateSharedTriangle = errors.New("consecutive boundary edges share more than one triangle")
	ErrSolveTimeout            = errors.New("label solve timed out")
	ErrInvalidAngleCutoff      = errors.New("angle cutoff must be within [0, 90] degrees")
	ErrInvalidChannel          = errors.New("invalid UV channel")
	ErrInvalidTimeout          = errors.New("solve timeout must be positive")
)
