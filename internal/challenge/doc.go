// Package challenge implements the rules of the "find the lost password"
// challenge.
//
// Every user gets a personal list of NumPasswords random passwords. Exactly
// one of them is the user's secret. The list is never stored: it is derived
// from a per-user seed, so the same seed always reproduces the same list
// and the same secret.
//
// Players download their list and check candidates one by one. A check
// answers SentinelCorrect or SentinelIncorrect on the first line of the
// response; the first correct check marks the user as solved and earns a
// redeem code.
package challenge
