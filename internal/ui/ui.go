// Package ui is the interactive hex front end: a tcell screen showing
// an offset column, a hex pane and an ASCII pane over an editor. The
// library does the editing; this package only draws and routes keys.
package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/ebb/internal/clipboard"
	"github.com/bethropolis/ebb/internal/editor"
	"github.com/bethropolis/ebb/internal/hexutil"
	"github.com/bethropolis/ebb/internal/logger"
	"github.com/bethropolis/ebb/internal/types"
)

const bytesPerRow = 16

// UI drives one editor session on a terminal screen.
type UI struct {
	screen tcell.Screen
	editor *editor.Editor
	clip   *clipboard.Manager

	topRow  uint64        // first visible row (row = offset / bytesPerRow)
	cursor  types.Natural // byte the cursor sits on
	pending *byte         // first nibble of a half-typed byte edit
	status  string
}

// New creates and initializes the UI over an open editor.
func New(ed *editor.Editor, clip *clipboard.Manager) (*UI, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create tcell screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize tcell screen: %w", err)
	}
	s.SetStyle(tcell.StyleDefault)
	return &UI{screen: s, editor: ed, clip: clip}, nil
}

// Close finalizes the tcell screen.
func (u *UI) Close() {
	if u.screen != nil {
		u.screen.Fini()
	}
}

// Run draws and handles events until the user quits.
func (u *UI) Run() error {
	for {
		u.draw()
		switch ev := u.screen.PollEvent().(type) {
		case *tcell.EventResize:
			u.screen.Sync()
		case *tcell.EventKey:
			if quit := u.handleKey(ev); quit {
				return nil
			}
		}
	}
}

func (u *UI) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		u.moveCursor(-bytesPerRow)
	case tcell.KeyDown:
		u.moveCursor(bytesPerRow)
	case tcell.KeyLeft:
		u.moveCursor(-1)
	case tcell.KeyRight:
		u.moveCursor(1)
	case tcell.KeyPgUp:
		u.moveCursor(-bytesPerRow * u.pageRows())
	case tcell.KeyPgDn:
		u.moveCursor(bytesPerRow * u.pageRows())
	case tcell.KeyCtrlR:
		u.status = fmt.Sprintf("redo: %v", u.editor.Redo())
	case tcell.KeyRune:
		return u.handleRune(ev.Rune())
	}
	return false
}

func (u *UI) handleRune(r rune) bool {
	if v, ok := hexutil.Digit(r); ok {
		u.typeNibble(v)
		return false
	}
	switch r {
	case 'q':
		return true
	case 'g':
		u.cursor = 0
		u.pending = nil
	case 'u':
		u.pending = nil
		u.status = fmt.Sprintf("undo: %v", u.editor.Undo())
	case 'i':
		if err := u.editor.Insert(u.cursor, 1, 0x00); err != nil {
			u.status = err.Error()
		} else {
			u.status = "inserted 1 byte"
		}
	case 'x':
		if err := u.editor.Delete(u.cursor, 1); err != nil {
			u.status = err.Error()
		} else {
			u.status = "deleted 1 byte"
		}
	case 'y':
		u.yankRow()
	case 's':
		u.status = fmt.Sprintf("save: %v", u.editor.Save())
	}
	return false
}

// typeNibble edits the cursor byte two hex digits at a time, the way
// every hex editor does: the first digit is held, the second commits.
func (u *UI) typeNibble(v byte) {
	if u.pending == nil {
		u.pending = &v
		return
	}
	value := (*u.pending << 4) | v
	u.editor.EditByte(u.cursor, value)
	u.pending = nil
	u.moveCursor(1)
}

func (u *UI) yankRow() {
	row := u.cursor - u.cursor%bytesPerRow
	data, err := u.editor.ReadRange(row, bytesPerRow)
	if err != nil || len(data) == 0 {
		u.status = "nothing to copy"
		return
	}
	if err := u.clip.CopyBytes(data); err != nil {
		u.status = "copied to internal clipboard only"
		return
	}
	u.status = fmt.Sprintf("copied %d byte(s)", len(data))
}

func (u *UI) moveCursor(delta int) {
	u.pending = nil
	pos := int64(u.cursor) + int64(delta)
	if pos < 0 {
		pos = 0
	}
	size, err := u.editor.VisibleSize()
	if err != nil {
		logger.Warnf("ui: sizing file: %v", err)
		return
	}
	max := int64(size)
	if max > 0 && pos >= max {
		pos = max - 1
	}
	if max == 0 {
		pos = 0
	}
	u.cursor = types.Natural(pos)
	u.scrollToCursor()
}

func (u *UI) pageRows() int {
	_, h := u.screen.Size()
	if h <= 2 {
		return 1
	}
	return h - 2 // header and status rows
}

func (u *UI) scrollToCursor() {
	row := uint64(u.cursor) / bytesPerRow
	page := uint64(u.pageRows())
	if row < u.topRow {
		u.topRow = row
	} else if page > 0 && row >= u.topRow+page {
		u.topRow = row - page + 1
	}
}

func (u *UI) draw() {
	u.screen.Clear()
	width, height := u.screen.Size()

	u.drawHeader(width)

	rows := u.pageRows()
	for i := 0; i < rows; i++ {
		offset := types.Natural((u.topRow + uint64(i)) * bytesPerRow)
		data, err := u.editor.ReadRange(offset, bytesPerRow)
		if err != nil {
			break
		}
		if len(data) == 0 && offset != 0 {
			break
		}
		u.drawRow(1+i, offset, data)
	}

	u.drawStatus(width, height)
	u.screen.Show()
}

func (u *UI) drawHeader(width int) {
	size, _ := u.editor.VisibleSize()
	header := fmt.Sprintf("%s  %d bytes  [%s]", u.editor.Path(), size, u.editor.Mode())
	if !u.editor.IsWritable() {
		header += "  (read-only)"
	}
	style := tcell.StyleDefault.Reverse(true)
	u.putLine(0, header, width, style)
}

func (u *UI) drawRow(y int, offset types.Natural, data []byte) {
	style := tcell.StyleDefault
	cursorStyle := style.Reverse(true)

	text := fmt.Sprintf("%08X  ", uint64(offset))
	x := 0
	for _, r := range text {
		u.screen.SetContent(x, y, r, nil, style.Dim(true))
		x++
	}

	for i := 0; i < bytesPerRow; i++ {
		cell := style
		if offset.Add(types.Relative(i)) == u.cursor {
			cell = cursorStyle
		}
		if i < len(data) {
			hi, lo := hexutil.Pair(data[i])
			u.screen.SetContent(x, y, rune(hi), nil, cell)
			u.screen.SetContent(x+1, y, rune(lo), nil, cell)
		} else {
			u.screen.SetContent(x, y, ' ', nil, style)
			u.screen.SetContent(x+1, y, ' ', nil, style)
		}
		x += 3
		if i == 7 {
			x++ // gap between the two hex halves
		}
	}

	x += 2
	for i := 0; i < len(data); i++ {
		cell := style
		if offset.Add(types.Relative(i)) == u.cursor {
			cell = cursorStyle
		}
		u.screen.SetContent(x+i, y, hexutil.Printable(data[i]), nil, cell)
	}
}

func (u *UI) drawStatus(width, height int) {
	help := "arrows:move  0-9a-f:edit  i:insert  x:delete  u:undo  ^R:redo  y:copy row  s:save  q:quit"
	line := u.status
	if line == "" {
		line = help
	}
	if u.pending != nil {
		line = fmt.Sprintf("editing: %c_  (second hex digit commits)", "0123456789ABCDEF"[*u.pending])
	}
	u.putLine(height-1, line, width, tcell.StyleDefault.Reverse(true))
}

func (u *UI) putLine(y int, text string, width int, style tcell.Style) {
	x := 0
	for _, r := range text {
		if x >= width {
			break
		}
		u.screen.SetContent(x, y, r, nil, style)
		x++
	}
	for ; x < width; x++ {
		u.screen.SetContent(x, y, ' ', nil, style)
	}
}
