package dfxml

import (
	"encoding/xml"
	"os"
	"os/user"
	"runtime"
	"strconv"
	"time"

	"github.com/ostafen/fwunpack/pkg/sysinfo"
)

const XmlOutputVersion = "1.0"

var DefaultMetadata = Metadata{
	Xmlns:    "http://www.forensicswiki.org/wiki/Category:Digital_Forensics_XML",
	XmlnsXsi: "http://www.w3.org/2001/XMLSchema-instance",
	XmlnsDC:  "http://purl.org/dc/elements/1.1/",
	Type:     "Unpack Report",
}

// DFXMLHeader represents the root element of a DFXML document.
type DFXMLHeader struct {
	XMLName   xml.Name `xml:"dfxml"`                           // Specifies the XML element name as "dfxml".
	XmlOutput string   `xml:"xmloutputversion,attr,omitempty"` // The version of the DFXML XML schema, an attribute.
	Metadata  Metadata `xml:"metadata"`                        // Contains metadata about the DFXML document.
	Creator   Creator  `xml:"creator"`                         // Describes the software that created the report.
	Source    Source   `xml:"source"`                          // Describes the unpacked firmware image.
}

// Metadata contains various metadata attributes for the DFXML document.
type Metadata struct {
	Xmlns    string `xml:"xmlns,attr"`     // XML Namespace for the DFXML schema.
	XmlnsXsi string `xml:"xmlns:xsi,attr"` // XML Namespace for XML Schema Instance.
	XmlnsDC  string `xml:"xmlns:dc,attr"`  // XML Namespace for Dublin Core.
	Type     string `xml:"dc:type"`        // The type of the DFXML document, e.g., "Unpack Report".
}

// Creator describes the software and environment used to generate the report.
type Creator struct {
	Package              string  `xml:"package"`               // The name of the software package.
	Version              string  `xml:"version"`               // The version of the software package.
	ExecutionEnvironment ExecEnv `xml:"execution_environment"` // Details about the execution environment.
}

// ExecEnv provides information about the operating system and host where the report was created.
type ExecEnv struct {
	OS      string `xml:"os_sysname"` // Operating system name (e.g., "linux", "windows").
	Release string `xml:"os_release"` // Operating system release version.
	Version string `xml:"os_version"` // Operating system kernel version.
	Host    string `xml:"host"`       // Hostname of the machine.
	Arch    string `xml:"arch"`       // Architecture of the machine (e.g., "amd64").
	UID     int    `xml:"uid"`        // User ID under which the process ran.
	Start   string `xml:"start_time"` // Start time of the unpack session.
}

// Source describes the firmware image given as input.
type Source struct {
	ImageFilename string `xml:"image_filename"` // The absolute path of the firmware image.
	ImageSize     uint64 `xml:"image_size"`     // The total size of the image in bytes.
	OutputDir     string `xml:"output_dir"`     // The directory receiving the artifacts.
}

// --- FileObject Struct ---

// FileObject describes one extraction step: the artifact it produced and
// the file it was extracted from.
type FileObject struct {
	XMLName  xml.Name     `xml:"fileobject"`           // Specifies the XML element name as "fileobject".
	Filename string       `xml:"filename"`             // The produced artifact, a file or a directory.
	FileSize uint64       `xml:"filesize"`             // The size of the artifact in bytes, 0 for directories.
	Parent   string       `xml:"parent_object"`        // The file the artifact was extracted from.
	Format   string       `xml:"format"`               // The id of the matched format.
	Status   string       `xml:"status"`               // Either "extracted" or "failed".
	Depth    int          `xml:"depth"`                // Number of extractions preceding this one.
	Digests  []HashDigest `xml:"hashdigest,omitempty"` // Digests of the artifact, regular files only.
	Error    string       `xml:"error,omitempty"`      // Cause of a failed extraction.
}

// HashDigest is the digest of a file object, tagged with its algorithm.
type HashDigest struct {
	Type  string `xml:"type,attr"` // The hash algorithm, e.g., "blake3".
	Value string `xml:",chardata"` // The hex encoded digest.
}

// GetExecEnv retrieves runtime information to populate the ExecEnv struct.
func GetExecEnv() ExecEnv {
	sinfo, err := sysinfo.Stat()
	if err != nil {
		sinfo = &sysinfo.SysUnknown
	}

	host, err := os.Hostname()
	if err != nil {
		host = "unknown_host"
	}

	uid := 0
	if currentUser, err := user.Current(); err == nil {
		if uidInt, parseErr := strconv.Atoi(currentUser.Uid); parseErr == nil {
			uid = uidInt
		}
	}

	return ExecEnv{
		OS:      sinfo.Name,
		Release: sinfo.Release,
		Version: sinfo.Version,
		Host:    host,
		Arch:    runtime.GOARCH,
		UID:     uid,
		Start:   time.Now().UTC().Format(time.RFC3339),
	}
}
