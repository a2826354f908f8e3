package format

import "path/filepath"

// BuildPath returns the output path of an artifact derived from baseName.
// An empty suffix names a directory target identical to the base name;
// the caller is responsible for clearing or creating it.
func BuildPath(folder, baseName, suffix string) string {
	if suffix == "" {
		return filepath.Join(folder, baseName)
	}
	return filepath.Join(folder, baseName+suffix)
}

// Naming is the naming rule of a descriptor.
type Naming struct {
	Name   string // Fixed artifact name, replaces the base name when set
	Suffix string // Appended to the name
	Dir    bool   // The destination is a directory
	Folder bool   // The destination is the output folder itself
}

// Path applies the rule to the given folder and base artifact name.
func (n Naming) Path(folder, baseName string) string {
	if n.Folder {
		return filepath.Clean(folder)
	}
	name := baseName
	if n.Name != "" {
		name = n.Name
	}
	return BuildPath(folder, name, n.Suffix)
}

// String describes the rule for listings.
func (n Naming) String() string {
	if n.Folder {
		return "<folder>/"
	}
	name := "<name>"
	if n.Name != "" {
		name = n.Name
	}
	s := name + n.Suffix
	if n.Dir {
		s += "/"
	}
	return s
}
