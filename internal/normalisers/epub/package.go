package epub

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/custodia-labs/novelrag/internal/core/domain"
)

const containerPath = "META-INF/container.xml"

// containerXML represents META-INF/container.xml.
type containerXML struct {
	Rootfiles []struct {
		FullPath  string `xml:"full-path,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"rootfiles>rootfile"`
}

// packageXML represents the OPF package document.
type packageXML struct {
	Metadata struct {
		Titles   []string `xml:"title"`
		Creators []string `xml:"creator"`
	} `xml:"metadata"`
	Manifest struct {
		Items []manifestItem `xml:"item"`
	} `xml:"manifest"`
}

type manifestItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

// isDocument reports whether the manifest item is an XHTML content document.
func (m manifestItem) isDocument() bool {
	switch strings.ToLower(strings.TrimSpace(m.MediaType)) {
	case "application/xhtml+xml", "text/html":
		return true
	default:
		return false
	}
}

// pkg is a parsed EPUB package with its archive.
type pkg struct {
	files    map[string]*zip.File
	opfDir   string
	title    string
	author   string
	manifest []manifestItem
}

// openPackage locates and parses the OPF document.
func openPackage(reader *zip.Reader) (*pkg, error) {
	files := make(map[string]*zip.File, len(reader.File))
	for _, f := range reader.File {
		files[f.Name] = f
	}

	containerData, err := readFile(files, containerPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrInvalidContainer, containerPath, err)
	}

	var container containerXML
	if err := xml.Unmarshal(containerData, &container); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", domain.ErrInvalidContainer, containerPath, err)
	}

	opfPath := ""
	for _, rf := range container.Rootfiles {
		if rf.FullPath != "" {
			opfPath = rf.FullPath
			break
		}
	}
	if opfPath == "" {
		return nil, fmt.Errorf("%w: no rootfile in %s", domain.ErrInvalidContainer, containerPath)
	}

	opfData, err := readFile(files, opfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading package %s: %v", domain.ErrInvalidContainer, opfPath, err)
	}

	var opf packageXML
	if err := xml.Unmarshal(opfData, &opf); err != nil {
		return nil, fmt.Errorf("%w: parsing package %s: %v", domain.ErrInvalidContainer, opfPath, err)
	}

	p := &pkg{
		files:    files,
		opfDir:   path.Dir(opfPath),
		manifest: opf.Manifest.Items,
	}
	if len(opf.Metadata.Titles) > 0 {
		p.title = strings.TrimSpace(opf.Metadata.Titles[0])
	}
	if len(opf.Metadata.Creators) > 0 {
		p.author = strings.TrimSpace(opf.Metadata.Creators[0])
	}

	return p, nil
}

// documents returns the content documents in manifest order.
func (p *pkg) documents() []manifestItem {
	var docs []manifestItem
	for _, item := range p.manifest {
		if item.isDocument() {
			docs = append(docs, item)
		}
	}
	return docs
}

// read returns the bytes of a manifest item, resolving href against the OPF directory.
func (p *pkg) read(item manifestItem) ([]byte, error) {
	href := item.Href
	if unescaped, err := url.PathUnescape(href); err == nil {
		href = unescaped
	}
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[:i]
	}
	return readFile(p.files, path.Join(p.opfDir, href))
}

// readFile reads a whole archive member.
func readFile(files map[string]*zip.File, name string) ([]byte, error) {
	f, ok := files[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrNotFound)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}
