package metadata

type VeoModel struct {
	ID      string
	Label   string
	Preview bool
}

type RefinerModel struct {
	ID    string
	Label string
}

var VeoModels = []VeoModel{
	{
		ID:      "veo-3.1-fast-generate-preview",
		Label:   "Veo 3.1 Fast (preview)",
		Preview: true,
	},
	{
		ID:      "veo-3.1-generate-preview",
		Label:   "Veo 3.1 (preview)",
		Preview: true,
	},
	{
		ID:    "veo-2.0-generate-001",
		Label: "Veo 2",
	},
}

// RefinerModels are the Gemini models offered for the optional prompt
// refinement pass before submission.
var RefinerModels = []RefinerModel{
	{
		ID:    "gemini-3-flash-preview",
		Label: "Gemini 3 Flash (preview)",
	},
	{
		ID:    "gemini-3-pro-preview",
		Label: "Gemini 3 Pro (preview)",
	},
}

const (
	DefaultVeoModel     = "veo-3.1-fast-generate-preview"
	DefaultRefinerModel = "gemini-3-flash-preview"
)

func VeoModelIDs() []string {
	ids := make([]string, 0, len(VeoModels))
	for _, m := range VeoModels {
		ids = append(ids, m.ID)
	}
	return ids
}

func RefinerModelIDs() []string {
	ids := make([]string, 0, len(RefinerModels))
	for _, m := range RefinerModels {
		ids = append(ids, m.ID)
	}
	return ids
}

// IsVeoModel reports whether id is a known generation model.
func IsVeoModel(id string) bool {
	for _, m := range VeoModels {
		if m.ID == id {
			return true
		}
	}
	return false
}
