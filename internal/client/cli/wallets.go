package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

// Wallets prints the account's watchlist.
func (a *App) Wallets(ctx context.Context) error {
	wallets, err := a.api.ListWallets(ctx)
	if err != nil {
		log.Printf("Could not list wallets: %s", err.Error())
		return err
	}
	if len(wallets) == 0 {
		fmt.Println("Watchlist is empty.")
		return nil
	}
	for _, w := range wallets {
		fmt.Printf("%s  %s  %s %s\n", w.ID, w.Address, w.Label, w.Chain)
	}
	return nil
}

// Watch puts an address on the watchlist.
func (a *App) Watch(ctx context.Context) error {
	address, err := getSimpleText(a.reader, "Wallet address", os.Stdout)
	if err != nil {
		return err
	}
	label, err := getSimpleText(a.reader, "Label (optional)", os.Stdout)
	if err != nil {
		return err
	}
	chain, err := getSimpleText(a.reader, "Chain (optional)", os.Stdout)
	if err != nil {
		return err
	}

	w, err := a.api.AddWallet(ctx, address, label, chain)
	if err != nil {
		log.Printf("Could not add wallet: %s", err.Error())
		return err
	}

	fmt.Printf("Watching %s (%s)\n", w.Address, w.ID)
	return nil
}

// Unwatch removes a watchlist entry by id.
func (a *App) Unwatch(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Watchlist entry id", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.RemoveWallet(ctx, id); err != nil {
		log.Printf("Could not remove wallet: %s", err.Error())
		return err
	}

	fmt.Println("Removed.")
	return nil
}
