package solana

import (
	"github.com/gagliardetto/solana-go"

	"solana-wallet-fleet/internal/domain"
)

// GenerateKeypair creates a fresh ed25519 wallet keypair. Every slot gets
// a new keypair; secrets are never reused across slots.
func GenerateKeypair() domain.Keypair {
	wallet := solana.NewWallet()

	secret := make([]byte, len(wallet.PrivateKey))
	copy(secret, wallet.PrivateKey)

	return domain.Keypair{
		Address: wallet.PublicKey().String(),
		Secret:  secret,
	}
}
