/*
Package ledger guards the wallet balances and the append-only transaction
log behind a single service.

Invariants:
  - balance >= 0 at all times; a debit or transfer that would break this
    is rejected with no mutation.
  - every balance change writes exactly one WalletTransaction row in the
    same database transaction; neither commits without the other.
  - insufficient funds on debit is a normal outcome (false, nil), not an
    error.

Usage:

	svc := ledger.NewService(repo, cache, notifier, ledger.Config{}, nil)

	err := svc.Credit(ctx, userID, 1000, "topup")
	ok, err := svc.Debit(ctx, userID, 500, "payout")
	err = svc.Transfer(ctx, ledger.TransferRequest{
		FromUserID: buyer, ToUserID: seller, Amount: 2500,
		Type: models.TransactionTypeCapsulePurchase,
	})

Amounts are int64 paise everywhere.
*/
package ledger
