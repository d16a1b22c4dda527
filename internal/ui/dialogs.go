package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"RoomBoard/internal/export"
	rbnet "RoomBoard/internal/net"
	"RoomBoard/internal/state"
)

const browseTimeout = 2 * time.Second

// writeExport encodes scene as PNG or PDF depending on the file extension.
func (a *App) writeExport(w io.Writer, ext string, scene state.Scene) error {
	if strings.EqualFold(ext, ".png") {
		return export.PNG(w, a.renderer, scene)
	}
	return export.PDF(w, a.renderer, scene, a.title)
}

// ShowExport asks for a destination and writes the current scene there.
func (a *App) ShowExport() {
	scene := a.board.Board().Scene()
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if writer == nil {
			return
		}
		defer func() {
			if err := writer.Close(); err != nil {
				a.log.Warn("closing export file", "err", err)
			}
		}()

		if err := a.writeExport(writer, writer.URI().Extension(), scene); err != nil {
			a.log.Error("export failed", "uri", writer.URI().String(), "err", err)
			dialog.ShowError(fmt.Errorf("export failed: %w", err), a.window)
			return
		}
		a.log.Info("scene exported", "uri", writer.URI().String(), "shapes", len(scene))
		a.SetStatus(fmt.Sprintf("Exported %d shapes to %s", len(scene), writer.URI().Name()))
	}, a.window)
	d.SetFileName("board.pdf")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".pdf", ".png"}))
	d.Show()
}

// ConfirmClear asks before emptying the board, since clearing drops history.
func (a *App) ConfirmClear() {
	dialog.ShowConfirm("Clear board", "Remove every shape? This cannot be undone.", func(ok bool) {
		if ok {
			a.board.Board().ClearAll()
		}
	}, a.window)
}

// ShowRelayPicker browses the LAN for relays and lets the user join one.
func (a *App) ShowRelayPicker() {
	a.SetStatus("Looking for relays...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*browseTimeout)
		defer cancel()
		relays, err := rbnet.Browse(ctx, browseTimeout)
		fyne.Do(func() { a.pickRelay(relays, err) })
	}()
}

func (a *App) pickRelay(relays []rbnet.Relay, err error) {
	if err != nil {
		a.log.Warn("relay browse failed", "err", err)
	}
	if len(relays) == 0 {
		a.SetStatus("No relays found")
		dialog.ShowInformation("Join room", "No relays found on the local network.", a.window)
		return
	}
	a.SetStatus(fmt.Sprintf("Found %d relays", len(relays)))

	var d dialog.Dialog
	list := widget.NewList(
		func() int { return len(relays) },
		func() fyne.CanvasObject { return widget.NewLabel("relay") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			r := relays[i]
			o.(*widget.Label).SetText(fmt.Sprintf("%s  %s  room %s", r.Instance, r.Addr, r.Room))
		},
	)
	list.OnSelected = func(i widget.ListItemID) {
		r := relays[i]
		d.Hide()
		if a.OnJoin != nil {
			a.OnJoin(r.Addr, r.Room)
		}
	}
	d = dialog.NewCustom("Join room", "Cancel", list, a.window)
	d.Resize(fyne.NewSize(420, 260))
	d.Show()
}
