package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"

	"platenav/internal/plate"
	"platenav/internal/selection"
)

type itemKind int

const (
	itemPlate itemKind = iota
	itemWellList
	itemAreas
)

type fileItem struct {
	title, desc string
	path        string // file path, or plate model id
	kind        itemKind
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

// refreshDir lists the plate library followed by the well lists (.csv) and
// forbidden-area files (.geojson) of the working directory.
func (m *Model) refreshDir() {
	var items []list.Item
	for _, id := range m.opts.Library.IDs() {
		p := m.opts.Library[id]
		items = append(items, fileItem{
			title: id,
			desc:  fmt.Sprintf("%s  %dx%d", p.Name, p.NumWellsX, p.NumWellsY),
			path:  id,
			kind:  itemPlate,
		})
	}
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
	}
	var files []list.Item
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		p := filepath.Join(m.cwd, name)
		switch strings.ToLower(filepath.Ext(name)) {
		case ".csv", ".txt":
			files = append(files, fileItem{title: name, desc: "well list", path: p, kind: itemWellList})
		case ".geojson":
			files = append(files, fileItem{title: name, desc: "forbidden areas", path: p, kind: itemAreas})
		}
	}
	sort.SliceStable(files, func(i, j int) bool { return files[i].(fileItem).Title() < files[j].(fileItem).Title() })
	items = append(items, files...)
	m.items = items
	m.l.SetItems(items)
}

// openItem applies a sidebar entry: load a plate, select a well list or
// show the areas of a GeoJSON file.
func (m *Model) openItem(it fileItem) {
	switch it.kind {
	case itemPlate:
		p, ok := m.opts.Library[it.path]
		if !ok {
			m.status = "unknown plate " + it.path
			return
		}
		if err := m.nav.LoadPlate(p); err != nil {
			m.status = "load error: " + err.Error()
			return
		}
		m.status = fmt.Sprintf("loaded plate %s (%d wells)", p.ModelID, p.WellCount())
	case itemWellList:
		names, err := plate.LoadWellList(it.path)
		if err != nil {
			m.status = "load error: " + err.Error()
			return
		}
		n, err := m.nav.SelectWells(names, selection.Select)
		if err != nil {
			m.status = "select error: " + err.Error()
			return
		}
		m.status = fmt.Sprintf("%s: %d names, %d wells selected", filepath.Base(it.path), len(names), n)
	case itemAreas:
		areas, err := plate.AreaFile(it.path).FetchForbiddenAreas(context.Background())
		if err != nil {
			m.status = "load error: " + err.Error()
			return
		}
		m.nav.SetForbiddenAreas(areas)
		m.status = fmt.Sprintf("%s: %d forbidden areas", filepath.Base(it.path), len(areas))
	}
	if m.showWells {
		m.refreshWellsTable()
	}
}
