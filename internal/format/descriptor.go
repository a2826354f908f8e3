package format

// Policy tells the driver what to do after a successful extraction.
type Policy int

const (
	// Recurse feeds the extracted file back into the dispatcher.
	Recurse Policy = iota
	// Terminal ends the branch; extracted directories are never descended into.
	Terminal
)

func (p Policy) String() string {
	switch p {
	case Recurse:
		return "recurse"
	case Terminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Status is the outcome of a single dispatch.
type Status int

const (
	NotApplicable Status = iota
	Extracted
	Failed
)

func (s Status) String() string {
	switch s {
	case NotApplicable:
		return "not-applicable"
	case Extracted:
		return "extracted"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// DetectFunc reports whether the file at path is in a given format.
// A non-nil error is only expected when the file cannot be opened.
type DetectFunc func(path string) (bool, error)

// ExtractFunc extracts src into dst and returns the path of the produced
// artifact, which is dst for most codecs.
type ExtractFunc func(src, dst string) (string, error)

type Descriptor struct {
	ID          string
	Description string
	Signatures  [][]byte // informational, used for listings
	Naming      Naming
	Policy      Policy
	ClearDest   bool   // remove the destination directory before extracting
	BaseName    string // when set, the descriptor only applies to artifacts with this base name
	Detect      DetectFunc
	Extract     ExtractFunc
}

// AppliesTo reports whether the descriptor may be evaluated for an
// artifact with the given base name.
func (d *Descriptor) AppliesTo(baseName string) bool {
	return d.BaseName == "" || d.BaseName == baseName
}

// Step records a single dispatch.
type Step struct {
	Source string
	Format string // descriptor ID, empty when nothing matched
	Output string
	Status Status
	Policy Policy
	Size   int64 // size of Output when it is a regular file
	Err    error // cause of a Failed status
}

// Continue reports whether the driver should dispatch Output again.
func (s *Step) Continue() bool {
	return s.Status == Extracted && s.Policy == Recurse
}
