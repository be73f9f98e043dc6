package metadata

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"rebatch/internal/model"
)

// companionSubtitleExtensions are always recognized as side-cars of a
// same-named principal, per spec §4.2.
var companionSubtitleExtensions = map[string]bool{
	"srt": true, "vtt": true, "ass": true, "xmp": true,
}

// cameraXMLRootMarkers are root-element local names that identify a
// recognized camera-metadata companion; an .xml file whose root
// element isn't one of these is ignored even if it matches the
// NAMEMnn.XML filename pattern, per spec §4.2 ("unrecognized
// same-named files are ignored").
var cameraXMLRootMarkers = map[string]bool{
	"NonRealTimeMeta": true,
	"ModelParam":      true,
}

// cameraXMLSuffix matches the "Mnn" between the principal's base name
// and the .XML extension of a camera-metadata companion.
var cameraXMLSuffix = regexp.MustCompile(`^M\d\d$`)

// Companion describes one discovered side-car file.
type Companion struct {
	Path   string // absolute path
	Suffix string // everything between the principal base name and this file's own extension
}

// DiscoverCompanions finds side-car files for principalPath in its
// parent directory: the camera-metadata pattern (NAMEMnn.XML, root
// element sniffed via encoding/xml) and the always-recognized
// subtitle extensions. Both recognizers require the companion's
// filename to start with the principal's base name.
func DiscoverCompanions(principalPath string) ([]Companion, error) {
	dir := filepath.Dir(principalPath)
	base := strings.TrimSuffix(filepath.Base(principalPath), filepath.Ext(principalPath))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var companions []Companion
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == filepath.Base(principalPath) {
			continue
		}
		if !strings.HasPrefix(name, base) {
			continue
		}
		suffix := strings.TrimPrefix(name, base)
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")

		switch {
		case ext == "xml" && cameraXMLSuffix.MatchString(strings.TrimSuffix(suffix, filepath.Ext(name))) && looksLikeCameraXML(filepath.Join(dir, name)):
			companions = append(companions, Companion{Path: filepath.Join(dir, name), Suffix: strings.TrimSuffix(suffix, filepath.Ext(name))})
		case companionSubtitleExtensions[ext]:
			companions = append(companions, Companion{Path: filepath.Join(dir, name), Suffix: strings.TrimSuffix(suffix, filepath.Ext(name))})
		}
	}
	return companions, nil
}

// looksLikeCameraXML sniffs the root element of an XML file without
// fully parsing it, returning true only if the root's local name is a
// recognized camera-metadata marker.
func looksLikeCameraXML(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	dec := xml.NewDecoder(io.LimitReader(f, 4096))
	for {
		tok, err := dec.Token()
		if err != nil {
			return false
		}
		if start, ok := tok.(xml.StartElement); ok {
			return cameraXMLRootMarkers[start.Name.Local]
		}
	}
}

// MergeCompanion extracts fields from a companion file and merges them
// into the principal's entry under companion:<filename>:<field> keys,
// per spec §4.2.
func MergeCompanion(principal *model.MetadataEntry, companion Companion) error {
	data, err := os.ReadFile(companion.Path)
	if err != nil {
		return err
	}

	fields := make(map[string]string)
	if strings.HasSuffix(strings.ToLower(companion.Path), ".xml") {
		flattenXML(bytes.NewReader(data), fields)
	} else {
		fields["raw"] = string(data)
	}

	name := filepath.Base(companion.Path)
	principal.Merge("companion:"+name+":", model.MetadataEntry{Fields: fields})
	return nil
}

// flattenXML walks an XML document's character data under each
// leaf element name, a best-effort flattening adequate for the small
// camera-metadata documents this recognizer targets.
func flattenXML(r io.Reader, out map[string]string) {
	dec := xml.NewDecoder(r)
	var stack []string
	for {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text != "" && len(stack) > 0 {
				out[strings.Join(stack, ".")] = text
			}
		}
	}
}
