// Package mailbox syncs Gmail changes via the History API and doubles
// as the scheduler's signal source by watching trigger-address traffic.
package mailbox
