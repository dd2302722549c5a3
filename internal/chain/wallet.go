package chain

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
)

// Wallet holds the signing identity used for write invocations.
type Wallet struct {
	privateKey *keys.PrivateKey
	account    *wallet.Account
}

// NewWallet creates a wallet from a hex-encoded private key (without 0x prefix).
func NewWallet(privateKeyHex string) (*Wallet, error) {
	pk, err := keys.NewPrivateKeyFromHex(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return &Wallet{
		privateKey: pk,
		account:    wallet.NewAccountFromPrivateKey(pk),
	}, nil
}

// Address returns the wallet's address.
func (w *Wallet) Address() string {
	return w.account.Address
}

// Sign signs an arbitrary message with the wallet key.
func (w *Wallet) Sign(message []byte) []byte {
	return w.privateKey.Sign(message)
}

// Account returns the underlying signing account.
func (w *Wallet) Account() *wallet.Account {
	return w.account
}
