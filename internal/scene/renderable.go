package scene

// Color is a linear RGBA color.
type Color [4]float32

// Texture describes a decoded image resource.
type Texture struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format,omitempty"`
}

// Material describes a surface shader resource.
type Material struct {
	Name        string   `json:"name"`
	Color       Color    `json:"color"`
	Texture     *Texture `json:"texture,omitempty"`
	Transparent bool     `json:"transparent,omitempty"`
}

// TextSurface is a billboard that renders a line of text.
type TextSurface struct {
	Name     string  `json:"name"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	FontSize float64 `json:"font_size"`
}

// Submesh is one independently shaded part of a model.
type Submesh struct {
	Name     string    `json:"name"`
	Material *Material `json:"material"`
}

// Model is a loaded 3D asset.
type Model struct {
	Name      string    `json:"name"`
	Source    string    `json:"source,omitempty"`
	Submeshes []Submesh `json:"submeshes"`
}

// Renderable is the drawable attached to a node.
type Renderable interface {
	Kind() string
}

// Cube is an axis-aligned box centered on the node origin.
type Cube struct {
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Depth    float64   `json:"depth"`
	Material *Material `json:"material"`
}

// Quad is a horizontal rectangle centered on the node origin.
type Quad struct {
	Width    float64   `json:"width"`
	Depth    float64   `json:"depth"`
	Material *Material `json:"material"`
}

// Cylinder is an upright cylinder centered on the node origin.
type Cylinder struct {
	Radius   float64   `json:"radius"`
	Height   float64   `json:"height"`
	Material *Material `json:"material"`
}

// ModelInstance draws a model with a per-submesh material override.
type ModelInstance struct {
	Model     *Model      `json:"model"`
	Materials []*Material `json:"materials"`
	Revealed  int         `json:"revealed"`
}

// Label draws Text on a text surface.
type Label struct {
	Text    string       `json:"text"`
	Surface *TextSurface `json:"surface"`
}

func (Cube) Kind() string          { return "cube" }
func (Quad) Kind() string          { return "quad" }
func (Cylinder) Kind() string      { return "cylinder" }
func (ModelInstance) Kind() string { return "model" }
func (Label) Kind() string         { return "label" }
