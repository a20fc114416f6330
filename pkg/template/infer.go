package template

// Inference is everything derived from one template text.
type Inference struct {
	Variables []string `json:"variables"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	Rows      int      `json:"rows"`
}

// Infer derives the ports and size of a template node from its text.
func Infer(text string) Inference {
	w, h := Dimensions(text)
	return Inference{
		Variables: Variables(text),
		Width:     w,
		Height:    h,
		Rows:      Rows(text),
	}
}
