package loader

// Sample returns a small document to start from: a root and one textured
// part that slides, turns and fades out, with a user data marker.
func Sample(name string) *Document {
	f := func(v float32) *float32 { return &v }
	end := 30
	label := "start"

	return &Document{
		Name:     name,
		FPS:      30,
		EndFrame: &end,
		Images: []ImageDoc{
			{ID: 0, Path: name + ".png"},
		},
		Parts: []PartDoc{
			{ID: 0, Parent: -1, Name: "root", Type: "root"},
			{
				ID:          1,
				Parent:      0,
				Name:        "body",
				Image:       0,
				Area:        RectDoc{Left: 0, Top: 0, Right: 64, Bottom: 64},
				Origin:      PointDoc{X: 32, Y: 32},
				InheritEach: true,
				Attributes: []AttributeDoc{
					{Tag: "POSX", Inherit: f(100), Keys: []KeyDoc{
						{Frame: 0, Value: f(0), Curve: "linear"},
						{Frame: 30, Value: f(120)},
					}},
					{Tag: "ANGL", Inherit: f(100), Keys: []KeyDoc{
						{Frame: 0, Value: f(0), Curve: "hermite", CurveParams: []float32{0, 0, 0, 0}},
						{Frame: 30, Value: f(90)},
					}},
					{Tag: "TRAN", Inherit: f(100), Keys: []KeyDoc{
						{Frame: 15, Value: f(1), Curve: "linear"},
						{Frame: 30, Value: f(0)},
					}},
					{Tag: "UDAT", Keys: []KeyDoc{
						{Frame: 0, User: &UserDoc{String: &label}},
					}},
				},
			},
		},
	}
}
