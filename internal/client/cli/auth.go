package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/walletscope/walletscope/internal/common"
	"github.com/walletscope/walletscope/internal/cryptox"
)

// getSimpleText and getPassphrase are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassphrase = GetPassphrase

// Register prompts the user for an email and password and creates a new
// account. The password never travels to the server: the client sends a
// random salt and a verifier derived from the password instead.
//
// The password and derived key are wiped before returning.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassphrase(os.Stdout, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	salt := common.GenerateRandByteArray(cryptox.SaltLen)
	key := cryptox.DeriveKey(password, salt)
	defer common.WipeByteArray(key)
	verifier := cryptox.DeriveVerificationToken(key)

	if err := a.api.Register(ctx, userName, salt, verifier); err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	fmt.Println("Success! You can now log in.")
	return nil
}

// Login authenticates against the backend: it fetches the account's auth
// salt, re-derives the verifier from the entered password, and exchanges it
// for an access token. On success the diary metadata is loaded so the user
// can proceed straight to setup or unlock.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassphrase(os.Stdout, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	salt, err := a.api.GetAuthSalt(ctx, userName)
	if err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	key := cryptox.DeriveKey(password, salt)
	defer common.WipeByteArray(key)
	verifier := cryptox.DeriveVerificationToken(key)

	if err := a.api.Login(ctx, userName, verifier); err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	a.userName = userName
	a.setMode(ModeOnline)
	log.Printf("Login successful")

	if err := a.ctrl.Init(ctx); err != nil {
		log.Printf("Could not load diary metadata: %s", err.Error())
		return nil
	}

	if a.ctrl.Global().Snapshot().IsNew {
		fmt.Println("No diary yet. Run 'setup' to choose a diary passphrase.")
	} else {
		fmt.Println("Diary found. Run 'unlock' to open it.")
	}
	return nil
}

// Logout locks the diary, discarding the session key and all decrypted
// notes, and forgets the account identity.
func (a *App) Logout(ctx context.Context) error {
	a.ctrl.Lock()
	a.userName = ""
	a.api.SetToken("")
	return nil
}
