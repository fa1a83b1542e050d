/*
Package tokenswap defines all common interfaces that tie the ledger runtime
together with the programs it executes.

A Program receives the accounts of an instruction as AccountInfo values and
the raw instruction data. Everything a program may ask from the runtime, such
as the minimum balance rule or calling into another program, is exposed
through Env. Programs keep no state between invocations: all state lives in
accounts.

We pass context through context.Context between the ledger and the programs.
The only value stored in it is the logger, see WithLogger and GetLogger.
*/
package tokenswap
