package course

type MaterialKind string

const (
	MaterialKindVideo    MaterialKind = "VIDEO"
	MaterialKindReading  MaterialKind = "READING"
	MaterialKindSlides   MaterialKind = "SLIDES"
	MaterialKindExternal MaterialKind = "EXTERNAL"
)

var AllMaterialKinds = []MaterialKind{
	MaterialKindVideo,
	MaterialKindReading,
	MaterialKindSlides,
	MaterialKindExternal,
}

func (k MaterialKind) IsValid() bool {
	for _, v := range AllMaterialKinds {
		if k == v {
			return true
		}
	}
	return false
}
