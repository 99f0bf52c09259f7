package textures

type Format int

const (
	FormatUnknown Format = iota
	FormatSD
	FormatHD
	FormatFullHD
)

var formatNames = map[Format]string{
	FormatUnknown: "unknown",
	FormatSD:      "sd",
	FormatHD:      "hd",
	FormatFullHD:  "fullhd",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}

	return formatNames[FormatUnknown]
}

func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// ClassifyFormat maps the raw texture width to a resolution tier.
// The ranges overlap: widths between 513 and 1023 satisfy both the HD and the FullHD
// conditions and the first match wins, so they are reported as HD.
func ClassifyFormat(width int) Format {
	switch {
	case width > 64 && width < 1024:
		return FormatHD
	case width > 512:
		return FormatFullHD
	default:
		return FormatSD
	}
}
