/*
Package escrow implements a trustless two party token swap.

The initializer locks tokens of one mint in a temporary token account and
transfers its ownership to an address derived from the program id. Nobody
holds a private key for that address, only this program can move the tokens.
A record stores how many tokens of another mint the initializer expects.

A taker completes the swap with a single Exchange instruction: the expected
amount moves to the initializer, the locked tokens move to the taker, the
temporary account is closed and the record is destroyed. Either everything
happens or nothing.

InitEscrow accounts:

  0. [signer]   initializer
  1. [writable] temporary token account, owned by the initializer
  2. []         initializer token account to receive the counter asset
  3. [writable] escrow record account, rent exempt, owned by this program
  4. []         rent sysvar
  5. []         token program

Exchange accounts:

  0. [signer]   taker
  1. [writable] taker token account sending the counter asset
  2. [writable] taker token account receiving the locked tokens
  3. [writable] temporary token account
  4. [writable] initializer main account, receives reclaimed lamports
  5. [writable] initializer token account to receive the counter asset
  6. [writable] escrow record account
  7. []         token program
  8. []         program authority
*/
package escrow
