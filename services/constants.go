package services

import "github.com/shopspring/decimal"

// ValidationThreshold is the number of matching votes that resolves a
// submission. Confirm and flag counts are checked independently against it,
// confirm first.
const ValidationThreshold = 3

// StoreProximityRadiusMeters is how close a reporter's GPS fix must be to the
// claimed store for a submission to be accepted.
const StoreProximityRadiusMeters = 150.0

// DailySubmissionLimit caps submissions per user per rolling day.
const DailySubmissionLimit = 50

// crownTransferMaxRetries bounds transparent retries of the crown decision
// after a lost lock or create race.
const crownTransferMaxRetries = 3

// CrownContestThreshold is the price band, in currency units, within which a
// non-undercutting report marks the crown contested instead of transferring
// it.
var CrownContestThreshold = decimal.RequireFromString("0.25")
