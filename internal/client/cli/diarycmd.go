package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/walletscope/walletscope/internal/common"
	"github.com/walletscope/walletscope/internal/diary"
)

// Setup runs the first-time diary passphrase ceremony: the passphrase is
// asked for twice, and both copies are wiped before returning.
func (a *App) Setup(ctx context.Context) error {
	passphrase, err := getPassphrase(os.Stdout, "Choose a diary passphrase")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(passphrase)

	confirm, err := getPassphrase(os.Stdout, "Repeat the passphrase")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if string(passphrase) != string(confirm) {
		fmt.Println("Passphrases do not match.")
		return errors.New("passphrase mismatch")
	}

	if err := a.ctrl.Setup(ctx, passphrase); err != nil {
		log.Printf("Setup unsuccessful: %s", err.Error())
		return err
	}

	fmt.Println("Diary created and unlocked.")
	return nil
}

// Unlock prompts for the diary passphrase and opens the diary. On failure
// the user sees one generic message regardless of the cause.
func (a *App) Unlock(ctx context.Context) error {
	passphrase, err := getPassphrase(os.Stdout, "Enter diary passphrase")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(passphrase)

	if err := a.ctrl.Unlock(ctx, passphrase); err != nil {
		if errors.Is(err, common.ErrIncorrectPassphrase) {
			fmt.Printf("Incorrect passphrase. (%d failed attempts)\n", a.ctrl.FailedAttempts())
		} else {
			log.Printf("Unlock unsuccessful: %s", err.Error())
		}
		return err
	}

	fmt.Println("Diary unlocked.")
	return nil
}

// Lock discards the session key and all decrypted notes.
func (a *App) Lock(ctx context.Context) error {
	a.ctrl.Lock()
	fmt.Println("Diary locked.")
	return nil
}

// AddNote reads a note body, type, and tags, and stores the note in the
// currently selected scope.
func (a *App) AddNote(ctx context.Context) error {
	text, err := GetMultiline(a.reader, "Note text", os.Stdout)
	if err != nil {
		return err
	}

	typ, err := a.readNoteType()
	if err != nil {
		return err
	}

	tags, err := GetTags(a.reader, os.Stdout)
	if err != nil {
		return err
	}

	note, err := a.facade().AddNote(ctx, text, typ, tags)
	if err != nil {
		log.Printf("Could not add note: %s", err.Error())
		return err
	}

	fmt.Printf("Added %s note %s\n", note.Type, note.ID)
	return nil
}

// EditNote re-reads the body, type, and tags of an existing note.
func (a *App) EditNote(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Note id", os.Stdout)
	if err != nil {
		return err
	}

	text, err := GetMultiline(a.reader, "New text", os.Stdout)
	if err != nil {
		return err
	}

	typ, err := a.readNoteType()
	if err != nil {
		return err
	}

	tags, err := GetTags(a.reader, os.Stdout)
	if err != nil {
		return err
	}

	if _, err := a.facade().UpdateNote(ctx, id, text, typ, tags); err != nil {
		log.Printf("Could not update note: %s", err.Error())
		return err
	}

	fmt.Println("Updated.")
	return nil
}

// DeleteNote removes a note by id from the currently selected scope.
func (a *App) DeleteNote(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Note id", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.facade().DeleteNote(ctx, id); err != nil {
		log.Printf("Could not delete note: %s", err.Error())
		return err
	}

	fmt.Println("Deleted.")
	return nil
}

// List prints the notes of the current scope, newest first.
func (a *App) List(ctx context.Context) error {
	notes := a.facade().Notes()
	if len(notes) == 0 {
		fmt.Println("No notes in scope", a.facade().Scope())
		return nil
	}
	for _, n := range notes {
		tags := ""
		if len(n.Tags) > 0 {
			tags = " [" + strings.Join(n.Tags, ",") + "]"
		}
		fmt.Printf("%s  %-8s %s%s\n    %s\n", n.CreatedAt.Format("2006-01-02 15:04"), n.Type, n.ID, tags, firstLine(n.Text))
	}
	return nil
}

// SetScope switches between the global diary and a per-wallet diary.
// Usage: scope global | scope <address>
func (a *App) SetScope(args []string) error {
	if len(args) == 0 || args[0] == "global" {
		a.walletAddr = ""
	} else {
		a.walletAddr = args[0]
	}
	fmt.Println("Scope:", a.facade().Scope())
	return nil
}

// Sync replays the pending offline queue against the server.
func (a *App) Sync(ctx context.Context) error {
	if err := a.ctrl.Sync(ctx); err != nil {
		log.Printf("Sync unsuccessful: %s", err.Error())
		return err
	}
	fmt.Println("Synced.")
	return nil
}

// Status prints the diary state for the current scope.
func (a *App) Status(ctx context.Context) error {
	snap := a.facade().Snapshot()
	fmt.Printf("scope: %s\nmode: %s\nlocked: %v\noffline: %v\nnotes: %d\n",
		a.facade().Scope(), a.Mode, snap.Locked, snap.Offline, len(snap.Notes))
	if snap.IsNew {
		fmt.Println("diary: not set up yet")
	}
	if snap.FailedAttempts > 0 {
		fmt.Printf("failed unlock attempts: %d\n", snap.FailedAttempts)
	}
	return nil
}

func (a *App) readNoteType() (diary.NoteType, error) {
	answer, err := getSimpleText(a.reader, "Type (thought/strategy/todo/note, default note)", os.Stdout)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return diary.NoteTypeNote, nil
	}
	typ := diary.NoteType(answer)
	if !typ.Valid() {
		fmt.Println("Unknown note type:", answer)
		return "", errors.New("unknown note type")
	}
	return typ, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
