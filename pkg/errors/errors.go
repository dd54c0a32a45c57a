package errors

import "github.com/flaboy/pin/usererrors"

// 支付意图相关错误
var (
	ErrIntentNotFound       = usererrors.New("intent.not_found", "Payment intent not found")
	ErrIntentExpired        = usererrors.New("intent.expired", "Payment intent has expired")
	ErrNotIntentOwner       = usererrors.New("intent.not_owner", "Caller is not the owner of this payment intent")
	ErrNotAssignedLP        = usererrors.New("intent.not_assigned_lp", "Caller is not the assigned LP of this payment intent")
	ErrInvalidState         = usererrors.New("intent.invalid_state", "Operation not permitted in the current intent state")
	ErrStateConflict        = usererrors.New("intent.state_conflict", "Intent state changed concurrently, please retry")
	ErrClaimConflict        = usererrors.New("intent.claim_conflict", "Payment intent was already claimed by another LP")
	ErrInvalidWalletAddress = usererrors.New("intent.invalid_wallet", "Invalid Ethereum wallet address")
	ErrCodeUnrecognized     = usererrors.New("intent.code_unrecognized", "Unable to identify payment platform from code content")
)

// LP相关错误
var (
	ErrLPNotFound          = usererrors.New("lp.not_found", "LP not found")
	ErrLPAlreadyRegistered = usererrors.New("lp.already_registered", "Wallet address is already registered as an LP")
	ErrLPInactive          = usererrors.New("lp.inactive", "LP account is inactive or unverified")
	ErrPlatformUnsupported = usererrors.New("lp.platform_unsupported", "LP does not support this payment platform")
)

// 额度相关错误
var (
	ErrInvalidAmount          = usererrors.New("quota.invalid_amount", "Amount must be a positive value")
	ErrInsufficientQuota      = usererrors.New("quota.insufficient", "Available quota is insufficient")
	ErrPerTransactionExceeded = usererrors.New("quota.per_transaction_exceeded", "Amount exceeds the per-transaction limit")
	ErrBelowLockedQuota       = usererrors.New("quota.below_locked", "New total quota cannot be below the locked amount")
)

// 结算相关错误
var (
	ErrSettlementQueueOverloaded = usererrors.New("settlement.queue_overloaded", "Settlement queue is full, please resubmit later")
)
