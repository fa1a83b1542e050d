/*
Package token implements the asset-custody program of the ledger.

A token account holds an amount of a single mint and names an owner, the
authority allowed to move the balance. The program understands the token
instruction wire format (one tag byte followed by the arguments), so
instructions built with the solana-go-sdk token builders can be executed
directly:

	InitializeAccount  [account(w), mint, owner, rent sysvar]
	Transfer           [source(w), destination(w), owner(s)]
	SetAuthority       [account(w), current owner(s)]
	MintTo             [mint, destination(w), mint authority(s)]
	CloseAccount       [account(w), destination(w), owner(s)]

Mints have no on-ledger state. The mint authority of a mint is the mint key
itself.
*/
package token
