package model

// Surface is the playing surface of a court
type Surface string

const (
	SurfaceHard  Surface = "hard"
	SurfaceClay  Surface = "clay"
	SurfaceGrass Surface = "grass"
)

// ParseSurface validates a surface name; empty input means hard
func ParseSurface(s string) (Surface, error) {
	switch Surface(s) {
	case "", SurfaceHard:
		return SurfaceHard, nil
	case SurfaceClay:
		return SurfaceClay, nil
	case SurfaceGrass:
		return SurfaceGrass, nil
	default:
		return "", ErrInvalidSurface
	}
}

// Court is server-owned reference data
type Court struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Location string  `json:"location,omitempty"`
	Surface  Surface `json:"surface,omitempty"`
	Status   string  `json:"status,omitempty"`
}

// DisplaySurface returns the surface, treating a missing value as hard
func (c Court) DisplaySurface() Surface {
	if c.Surface == "" {
		return SurfaceHard
	}
	return c.Surface
}
