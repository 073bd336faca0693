package ledger

import (
	"crypto/ed25519"

	"github.com/blinklabs-io/praos-ledger/internal/address"
	"github.com/blinklabs-io/praos-ledger/internal/common"
	"github.com/blinklabs-io/praos-ledger/internal/crypto"
	"github.com/blinklabs-io/praos-ledger/internal/txmodel"
)

// FeeSchedule is the linear fee schedule spec.md §4.5 step 2 names:
// constant + coefficient*(#inputs+#outputs) + per_cert + per_vote_cert.
type FeeSchedule struct {
	Constant    uint64
	Coefficient uint64
	CertFee     uint64
	VoteCertFee uint64
}

// Compute returns the fee required for a fragment with the given shape.
func (f FeeSchedule) Compute(numInputs, numOutputs, numCerts, numVoteCerts int) (common.Value, error) {
	total := f.Constant
	total += f.Coefficient * uint64(numInputs+numOutputs)
	total += f.CertFee * uint64(numCerts)
	total += f.VoteCertFee * uint64(numVoteCerts)
	if total < f.Constant {
		return 0, ErrFeeUnderflow
	}
	return common.Value(total), nil
}

// Settings are the active, block0-derived chain parameters a Ledger
// validates against (spec.md §3, §6.3).
type Settings struct {
	Discrimination              address.Discrimination
	Fee                         FeeSchedule
	SlotsPerEpoch               uint32
	KESUpdateSpeed              uint32
	ActiveSlotsCoefficientMilli uint32
	TreasuryTax                 SplitPolicy
	Reward                      RewardParams
}

// Fragment bundles a built transaction with its decoded typed payload and
// payload-auth (if any). This package does not decode wire bytes into a
// Fragment; it only validates and applies already-typed fragments, matching spec.md §4.5's decomposition where "decode &
// structural check" (step 1) precedes everything this package does.
type Fragment struct {
	Tx *txmodel.Transaction

	StakeDelegation      *txmodel.StakeDelegationPayload
	OwnerStakeDelegation *txmodel.OwnerStakeDelegationPayload
	PoolRegistration     *txmodel.PoolRegistrationPayload
	PoolRetirement       *txmodel.PoolRetirementPayload

	AccountBindingSig *txmodel.AccountBindingSignature
	PoolOwnersSig     *txmodel.PoolOwnersSigned
}

// Block is a decoded block ready for application: its fragments plus the
// header fields apply_block checks the parent/date against.
type Block struct {
	Hash       common.Hash32
	ParentHash common.Hash32
	Date       common.BlockDate
	Fragments  []Fragment
}

// Ledger is the immutable state value spec.md §3 describes. Every mutation
// (via ApplyBlock) produces a new Ledger; no method here mutates its
// receiver in place. Two ledgers at the same height are consensus-equal
// iff they are structurally equal.
type Ledger struct {
	Date          common.BlockDate
	UTXOs         UTXOMap
	Accounts      AccountMap
	Pools         PoolRegistry
	Settings      Settings
	Treasury      common.Value
	RewardsPot    common.Value
	LastBlockHash common.Hash32
	ParentHash    common.Hash32
	ChainLength   uint64
}

// NewLedger returns the genesis ledger (before block0 is applied) for the
// given settings.
func NewLedger(settings Settings) Ledger {
	return Ledger{
		UTXOs:    NewUTXOMap(),
		Accounts: NewAccountMap(),
		Pools:    NewPoolRegistry(),
		Settings: settings,
	}
}

// ApplyBlock folds b onto l, producing a new Ledger (spec.md §4.5). Any
// error aborts the whole block: l is returned unchanged alongside the
// error, never partially applied.
func ApplyBlock(l Ledger, b Block, block0Hash common.Hash32) (Ledger, error) {
	if l.ChainLength > 0 && b.ParentHash != l.LastBlockHash {
		return l, ErrParentMismatch
	}
	if l.ChainLength > 0 && b.Date.Compare(l.Date) <= 0 {
		return l, ErrBlockTooFarFuture
	}

	next := l

	// Step 6 (epoch transition) runs before fragments are applied, per
	// spec.md §4.5.
	if l.ChainLength == 0 || l.Date.CrossesEpoch(b.Date) {
		var err error
		next, err = applyEpochTransition(next, b.Date.Epoch)
		if err != nil {
			return l, err
		}
	}

	for _, frag := range b.Fragments {
		var err error
		next, err = applyFragment(next, frag, block0Hash)
		if err != nil {
			return l, err
		}
	}

	next.Date = b.Date
	next.LastBlockHash = b.Hash
	next.ParentHash = b.ParentHash
	next.ChainLength = l.ChainLength + 1
	return next, nil
}

// applyEpochTransition computes the new epoch's reward contribution,
// distributes it to the treasury and pools, and rolls RewardsPot forward
// (spec.md §4.3, §4.5 step 6). The stake-pool retirement freeze follows from
// the stake distribution snapshot, where a retired pool's stake counts as
// dangling. No epoch nonce is rolled here.
func applyEpochTransition(l Ledger, newEpoch uint32) (Ledger, error) {
	contribution, err := l.Settings.Reward.Contribution(newEpoch)
	if err != nil {
		return l, ErrEpochSettingsInvalid
	}
	pot, err := l.RewardsPot.Add(contribution)
	if err != nil {
		return l, err
	}

	treasuryShare, poolsShare, err := l.Settings.TreasuryTax.Split(pot)
	if err != nil {
		return l, err
	}
	newTreasury, err := l.Treasury.Add(treasuryShare)
	if err != nil {
		return l, err
	}

	dist := ComputeStakeDistribution(l.Accounts, l.Pools, newEpoch)
	totalStake := dist.TotalStake()

	accounts := l.Accounts
	var remainder common.Value
	for poolID, stake := range dist.Pools {
		pool, ok := l.Pools.Lookup(poolID)
		if !ok {
			continue
		}
		poolGross := common.Value(0)
		if totalStake > 0 {
			poolGross = scaleByRatio(poolsShare, stake, totalStake)
		}
		_, delegatorShare, err := pool.RewardsTax.Split(poolGross)
		if err != nil {
			return l, err
		}
		delegatorStakes := delegatorStakesForPool(l.Accounts, poolID, newEpoch, l.Pools)
		payouts, rem := DistributeToDelegators(delegatorShare, delegatorStakes, stake)
		remainder = remainder.SaturatingAdd(rem)
		for accID, amount := range payouts {
			if amount == 0 {
				continue
			}
			acc, ok := accounts.Lookup(accID)
			if !ok {
				continue
			}
			accounts, _ = accounts.Credit(accID, acc.VerificationKey, amount)
		}
	}

	if totalStake == 0 {
		// No pool holds stake, so nothing was paid out: the pools' share
		// stays in the pot.
		remainder = poolsShare
	}

	l.Accounts = accounts
	l.Treasury = newTreasury
	l.RewardsPot = remainder
	return l, nil
}

// scaleByRatio returns pot*numerator/denominator truncated, matching the
// truncation rule spec.md §4.3 names for per-pool reward shares.
func scaleByRatio(pot, numerator, denominator common.Value) common.Value {
	sp := SplitPolicy{Kind: SplitRatioLimit, RatioNum: uint64(numerator), RatioDen: uint64(denominator)}
	share, _, _ := sp.Split(pot)
	return share
}

// delegatorStakesForPool recomputes the per-account stake contributing to
// poolID, for payout proportioning.
func delegatorStakesForPool(accounts AccountMap, poolID common.Hash28, epoch uint32, pools PoolRegistry) map[common.Hash28]common.Value {
	out := make(map[common.Hash28]common.Value)
	accounts.ForEach(func(id common.Hash28, acc AccountState) bool {
		switch acc.Delegation.Kind {
		case DelegationFull:
			if acc.Delegation.Pool == poolID {
				out[id] = acc.Balance
			}
		case DelegationRatio:
			totalWeight := uint32(0)
			for _, e := range acc.Delegation.Ratio {
				totalWeight += uint32(e.Weight)
			}
			if totalWeight == 0 {
				return true
			}
			for _, e := range acc.Delegation.Ratio {
				if e.PoolID != poolID {
					continue
				}
				share := scaleByRatio(acc.Balance, common.Value(e.Weight), common.Value(totalWeight))
				out[id] = out[id].SaturatingAdd(share)
			}
		}
		return true
	})
	return out
}

// applyFragment validates and applies one fragment, dispatching on which
// certificate payload it carries (spec.md §4.5 steps 2-5).
func applyFragment(l Ledger, frag Fragment, block0Hash common.Hash32) (Ledger, error) {
	tx := frag.Tx

	if err := checkDiscrimination(l.Settings.Discrimination, tx); err != nil {
		return l, err
	}

	numCerts := 0
	if frag.StakeDelegation != nil || frag.OwnerStakeDelegation != nil ||
		frag.PoolRegistration != nil || frag.PoolRetirement != nil {
		numCerts = 1
	}
	fee, err := l.Settings.Fee.Compute(len(tx.Inputs), len(tx.Outputs), numCerts, 0)
	if err != nil {
		return l, err
	}
	inTotal, err := tx.TotalInputValue()
	if err != nil {
		return l, err
	}
	outTotal, err := tx.TotalOutputValue()
	if err != nil {
		return l, err
	}
	required, err := outTotal.Add(fee)
	if err != nil {
		return l, err
	}
	if inTotal != required {
		return l, ErrNotBalanced
	}

	if len(tx.Witnesses) != len(tx.Inputs) {
		return l, ErrWitnessCountMismatch
	}
	signDataHash := tx.AuthDataForWitness()
	for i, in := range tx.Inputs {
		w := tx.Witnesses[i]
		if err := verifyInputWitness(l, block0Hash, signDataHash, in, w); err != nil {
			return l, err
		}
	}

	if err := checkPayloadAuth(l, tx, frag, block0Hash); err != nil {
		return l, err
	}

	return applyEffects(l, tx, frag, fee)
}

func checkDiscrimination(want address.Discrimination, tx *txmodel.Transaction) error {
	for _, out := range tx.Outputs {
		if out.Address.Discrimination != want {
			return ErrInvalidDiscrimination
		}
	}
	return nil
}

func verifyInputWitness(l Ledger, block0Hash, signDataHash common.Hash32, in txmodel.Input, w txmodel.Witness) error {
	switch in.Kind {
	case txmodel.InputKindUTXO:
		entry, ok := l.UTXOs.Lookup(in.UTXOTxID, in.UTXOIndex)
		if !ok {
			return ErrUnknownUtxo
		}
		if entry.Value != in.Value {
			return ErrNotBalanced
		}
		if entry.Address.Kind == address.KindMultisig {
			return ErrBadWitness // multisig UTXO addresses require a declaration; unsupported here
		}
		vk, err := verificationKeyFromAddress(entry.Address)
		if err != nil {
			return err
		}
		if err := txmodel.VerifyUTXOWitness(vk, block0Hash, signDataHash, w); err != nil {
			return ErrBadWitness
		}
		return nil

	case txmodel.InputKindAccount:
		acc, ok := l.Accounts.Lookup(in.AccountID)
		if !ok {
			return ErrUnknownAccount
		}
		vk, err := newVerificationKey(acc.VerificationKey)
		if err != nil {
			return err
		}
		if err := txmodel.VerifyAccountWitness(vk, block0Hash, signDataHash, in.SpendingCounter, w); err != nil {
			return ErrBadWitness
		}
		return nil

	default:
		return ErrBadWitness
	}
}

func checkPayloadAuth(l Ledger, tx *txmodel.Transaction, frag Fragment, block0Hash common.Hash32) error {
	switch {
	case frag.StakeDelegation != nil:
		if frag.AccountBindingSig == nil {
			return ErrBadPayloadAuth
		}
		acc, ok := l.Accounts.Lookup(frag.StakeDelegation.AccountID)
		if !ok {
			return ErrUnknownAccount
		}
		vk, err := newVerificationKey(acc.VerificationKey)
		if err != nil {
			return err
		}
		if err := vk.Verify(tx.AuthData().Bytes(), frag.AccountBindingSig.Signature); err != nil {
			return ErrBadPayloadAuth
		}
		return nil

	case frag.PoolRegistration != nil:
		if frag.PoolOwnersSig == nil {
			return ErrBadPayloadAuth
		}
		decl := declarationFromRawOwners(frag.PoolRegistration.Owners, frag.PoolRegistration.ManagementThreshold)
		if err := txmodel.VerifyMultisig(decl, tx.AuthData().Bytes(), frag.PoolOwnersSig.Signatures); err != nil {
			return ErrBadPayloadAuth
		}
		return nil

	case frag.PoolRetirement != nil:
		if frag.PoolOwnersSig == nil {
			return ErrBadPayloadAuth
		}
		pool, ok := l.Pools.Lookup(frag.PoolRetirement.PoolID)
		if !ok {
			return ErrUnknownPool
		}
		decl := txmodel.MultisigDeclaration{Threshold: pool.ManagementThreshold, Owners: pool.Owners}
		if err := txmodel.VerifyMultisig(decl, tx.AuthData().Bytes(), frag.PoolOwnersSig.Signatures); err != nil {
			return ErrBadPayloadAuth
		}
		return nil
	}
	return nil
}

func applyEffects(l Ledger, tx *txmodel.Transaction, frag Fragment, fee common.Value) (Ledger, error) {
	var err error

	// The transaction's own id is the hash of everything it commits to:
	// payload, IOs, and witnesses (AuthData already covers all three).
	txID := tx.AuthData()

	for i, in := range tx.Inputs {
		w := tx.Witnesses[i]
		switch in.Kind {
		case txmodel.InputKindUTXO:
			l.UTXOs, _, err = l.UTXOs.Remove(in.UTXOTxID, in.UTXOIndex)
			if err != nil {
				return l, err
			}
		case txmodel.InputKindAccount:
			l.Accounts, err = l.Accounts.Debit(in.AccountID, in.Value, in.SpendingCounter)
			if err != nil {
				return l, err
			}
		}
		_ = w
	}

	for _, out := range tx.Outputs {
		if out.Address.Kind == address.KindAccount {
			id := AccountIDFromKey(out.Address.SpendingKey)
			l.Accounts, err = l.Accounts.Credit(id, out.Address.SpendingKey, out.Value)
			if err != nil {
				return l, err
			}
		}
	}
	utxoOutputs := utxoBoundOutputs(tx.Outputs)
	if len(utxoOutputs) > 0 {
		l.UTXOs, err = l.UTXOs.Add(txID, utxoOutputs)
		if err != nil {
			return l, err
		}
	}

	l.Treasury, err = l.Treasury.Add(fee)
	if err != nil {
		return l, err
	}

	switch {
	case frag.StakeDelegation != nil:
		d := frag.StakeDelegation
		l.Accounts, err = l.Accounts.SetDelegation(d.AccountID, DelegationType{Kind: DelegationFull, Pool: d.PoolID})
		if err != nil {
			return l, err
		}

	case frag.OwnerStakeDelegation != nil:
		if len(tx.Inputs) == 0 || tx.Inputs[0].Kind != txmodel.InputKindAccount {
			return l, ErrBadPayloadAuth
		}
		ownerID := tx.Inputs[0].AccountID
		l.Accounts, err = l.Accounts.SetDelegation(ownerID, DelegationType{Kind: DelegationFull, Pool: frag.OwnerStakeDelegation.PoolID})
		if err != nil {
			return l, err
		}

	case frag.PoolRegistration != nil:
		reg := frag.PoolRegistration
		id := common.Blake2b224(reg.Bytes())
		pool := StakePool{
			ID:                  id,
			Owners:              toPublicKeys(reg.Owners),
			Operators:           toPublicKeys(reg.Operators),
			ManagementThreshold: reg.ManagementThreshold,
			VRFPublicKey:        append([]byte(nil), reg.VRFPublicKey...),
			KESPublicKey:        append([]byte(nil), reg.KESPublicKey...),
		}
		l.Pools, err = l.Pools.Register(pool)
		if err != nil {
			return l, err
		}

	case frag.PoolRetirement != nil:
		ret := frag.PoolRetirement
		l.Pools, err = l.Pools.Retire(ret.PoolID, ret.RetirementAt)
		if err != nil {
			return l, err
		}
	}

	return l, nil
}

func utxoBoundOutputs(outs []txmodel.Output) []txmodel.Output {
	utxoOuts := make([]txmodel.Output, 0, len(outs))
	for _, o := range outs {
		if o.Address.Kind != address.KindAccount {
			utxoOuts = append(utxoOuts, o)
		}
	}
	return utxoOuts
}

// toPublicKeys converts the raw key bytes PoolRegistrationPayload carries
// at the wire layer into the typed keys StakePool stores.
func toPublicKeys(keys [][]byte) []ed25519.PublicKey {
	if keys == nil {
		return nil
	}
	out := make([]ed25519.PublicKey, len(keys))
	for i, k := range keys {
		out[i] = ed25519.PublicKey(append([]byte(nil), k...))
	}
	return out
}

func declarationFromRawOwners(owners [][]byte, threshold uint8) txmodel.MultisigDeclaration {
	return txmodel.MultisigDeclaration{Threshold: threshold, Owners: toPublicKeys(owners)}
}

// newVerificationKey wraps an account's stored public key, rejecting the
// zero-value key an AccountState without VerificationKey set would have.
func newVerificationKey(pub ed25519.PublicKey) (crypto.VerificationKey, error) {
	if len(pub) != ed25519.PublicKeySize {
		return crypto.VerificationKey{}, ErrBadWitness
	}
	return crypto.NewVerificationKey(pub)
}

// verificationKeyFromAddress resolves the key that must witness spending a
// UTXO paid to addr.
func verificationKeyFromAddress(addr address.Address) (crypto.VerificationKey, error) {
	return newVerificationKey(addr.SpendingKey)
}
