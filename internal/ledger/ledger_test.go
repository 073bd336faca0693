package ledger_test

import (
	"crypto/ed25519"
	"testing"

	"github.com/blinklabs-io/praos-ledger/internal/address"
	"github.com/blinklabs-io/praos-ledger/internal/common"
	"github.com/blinklabs-io/praos-ledger/internal/crypto"
	"github.com/blinklabs-io/praos-ledger/internal/ledger"
	"github.com/blinklabs-io/praos-ledger/internal/txmodel"
)

func testSettings() ledger.Settings {
	return ledger.Settings{
		Discrimination: address.DiscriminationTest,
		Fee:            ledger.FeeSchedule{Constant: 10, Coefficient: 1, CertFee: 5},
		SlotsPerEpoch:  10,
		Reward: ledger.RewardParams{
			InitialValue:      0,
			ReducingType:      ledger.ReducingLinear,
			ReducingRatioNum:  0,
			ReducingRatioDen:  1,
			ReducingEpochRate: 1,
		},
		TreasuryTax: ledger.SplitPolicy{Kind: ledger.SplitFixed, Fixed: 0},
	}
}

func singleAddr(vk crypto.VerificationKey) address.Address {
	return address.Address{
		Discrimination: address.DiscriminationTest,
		Kind:           address.KindSingle,
		SpendingKey:    ed25519.PublicKey(vk.Bytes()),
	}
}

func accountAddr(vk crypto.VerificationKey) address.Address {
	return address.Address{
		Discrimination: address.DiscriminationTest,
		Kind:           address.KindAccount,
		SpendingKey:    ed25519.PublicKey(vk.Bytes()),
	}
}

// genesisUTXO seeds l with one live UTXO entry paying addr, as if produced by
// a prior (untested) Initial fragment; spec.md §8 scenario 1 assumes such an
// entry already exists.
func genesisUTXO(t *testing.T, l ledger.Ledger, txID common.Hash32, index uint8, addr address.Address, value common.Value) ledger.Ledger {
	t.Helper()
	utxos, err := l.UTXOs.Add(txID, []txmodel.Output{{Address: addr, Value: value}})
	if err != nil {
		t.Fatalf("seeding genesis utxo: %v", err)
	}
	_ = index
	l.UTXOs = utxos
	return l
}

func buildUTXOSpendTx(t *testing.T, sk crypto.SigningKey, block0Hash common.Hash32, in txmodel.Input, outs []txmodel.Output) *txmodel.Transaction {
	t.Helper()
	ws := txmodel.NewTransaction().
		SetPayload(txmodel.TagTransaction, nil).
		SetIOs([]txmodel.Input{in}, outs)
	signDataHash := ws.AuthDataForWitness()
	witness := txmodel.NewUTXOWitness(sk, block0Hash, signDataHash)
	tx := ws.SetWitnesses([]txmodel.Witness{witness}).SetAuth(nil)
	return tx
}

func TestApplyBlockBalancedUTXOTransaction(t *testing.T) {
	sk, vk, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("generating key pair: %v", err)
	}
	payer := singleAddr(vk)

	_, vk2, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("generating key pair: %v", err)
	}
	payee := singleAddr(vk2)

	l := ledger.NewLedger(testSettings())
	var block0Hash common.Hash32
	var genesisTxID common.Hash32
	genesisTxID[0] = 1
	l = genesisUTXO(t, l, genesisTxID, 0, payer, 1000)

	in := txmodel.NewUTXOInput(genesisTxID, 0, 1000)
	// fee = constant(10) + coefficient(1)*(1 input + 2 outputs) = 13
	outs := []txmodel.Output{
		{Address: payee, Value: 900},
		{Address: payer, Value: 87},
	}
	tx := buildUTXOSpendTx(t, sk, block0Hash, in, outs)

	block := ledger.Block{
		Hash:       common.Hash32{1},
		ParentHash: l.LastBlockHash,
		Date:       common.BlockDate{Epoch: 0, Slot: 1},
		Fragments:  []ledger.Fragment{{Tx: tx}},
	}

	next, err := ledger.ApplyBlock(l, block, block0Hash)
	if err != nil {
		t.Fatalf("ApplyBlock: %v", err)
	}

	if _, ok := next.UTXOs.Lookup(genesisTxID, 0); ok {
		t.Fatal("spent utxo still present")
	}
	txID := tx.AuthData()
	entry, ok := next.UTXOs.Lookup(txID, 0)
	if !ok || entry.Value != 900 {
		t.Fatalf("expected payee output of 900, got %+v ok=%v", entry, ok)
	}
	change, ok := next.UTXOs.Lookup(txID, 1)
	if !ok || change.Value != 87 {
		t.Fatalf("expected change output of 87, got %+v ok=%v", change, ok)
	}
	if next.Treasury != 13 {
		t.Fatalf("expected fee of 13 credited to treasury, got %d", next.Treasury)
	}
}

func TestApplyBlockRejectsMixedDiscrimination(t *testing.T) {
	sk, vk, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("generating key pair: %v", err)
	}
	payer := singleAddr(vk)

	_, vk2, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("generating key pair: %v", err)
	}
	wrongDiscrimination := address.Address{
		Discrimination: address.DiscriminationProduction,
		Kind:           address.KindSingle,
		SpendingKey:    ed25519.PublicKey(vk2.Bytes()),
	}

	l := ledger.NewLedger(testSettings())
	var block0Hash common.Hash32
	var genesisTxID common.Hash32
	genesisTxID[0] = 2
	l = genesisUTXO(t, l, genesisTxID, 0, payer, 1000)

	in := txmodel.NewUTXOInput(genesisTxID, 0, 1000)
	outs := []txmodel.Output{{Address: wrongDiscrimination, Value: 987}}
	tx := buildUTXOSpendTx(t, sk, block0Hash, in, outs)

	block := ledger.Block{
		Hash:       common.Hash32{2},
		ParentHash: l.LastBlockHash,
		Date:       common.BlockDate{Epoch: 0, Slot: 1},
		Fragments:  []ledger.Fragment{{Tx: tx}},
	}

	_, err = ledger.ApplyBlock(l, block, block0Hash)
	if err != ledger.ErrInvalidDiscrimination {
		t.Fatalf("expected ErrInvalidDiscrimination, got %v", err)
	}
}

func TestApplyBlockRejectsStaleSpendingCounter(t *testing.T) {
	sk, vk, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("generating key pair: %v", err)
	}
	accID := ledger.AccountIDFromKey(ed25519.PublicKey(vk.Bytes()))

	l := ledger.NewLedger(testSettings())
	var block0Hash common.Hash32
	accounts, err := l.Accounts.Credit(accID, ed25519.PublicKey(vk.Bytes()), 1000)
	if err != nil {
		t.Fatalf("seeding account: %v", err)
	}
	// advance the stored counter to 1, as if one spend had already been applied
	accounts, err = accounts.Debit(accID, 0, 0)
	if err != nil {
		t.Fatalf("advancing spending counter: %v", err)
	}
	l.Accounts = accounts

	payee := singleAddr(vk)
	in := txmodel.NewAccountInput(accID, 0, 500)
	// fee = constant(10) + coefficient(1)*(1 input + 1 output) = 12
	outs := []txmodel.Output{{Address: payee, Value: 488}}
	ws := txmodel.NewTransaction().
		SetPayload(txmodel.TagTransaction, nil).
		SetIOs([]txmodel.Input{in}, outs)
	signDataHash := ws.AuthDataForWitness()
	// commits to the stale counter 0, as if replaying an already-applied witness
	witness := txmodel.NewAccountWitness(sk, block0Hash, signDataHash, 0)
	tx := ws.SetWitnesses([]txmodel.Witness{witness}).SetAuth(nil)

	block := ledger.Block{
		Hash:       common.Hash32{3},
		ParentHash: l.LastBlockHash,
		Date:       common.BlockDate{Epoch: 0, Slot: 1},
		Fragments:  []ledger.Fragment{{Tx: tx}},
	}

	_, err = ledger.ApplyBlock(l, block, block0Hash)
	if err != ledger.ErrStaleSpendingCounter {
		t.Fatalf("expected ErrStaleSpendingCounter, got %v", err)
	}
}

func TestComputeStakeDistributionFreezesRetiredPoolStake(t *testing.T) {
	_, poolVK, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("generating key pair: %v", err)
	}

	l := ledger.NewLedger(testSettings())
	pool := ledger.StakePool{
		ID:                  common.Hash28{9},
		Owners:              []ed25519.PublicKey{ed25519.PublicKey(poolVK.Bytes())},
		ManagementThreshold: 1,
	}
	pools, err := l.Pools.Register(pool)
	if err != nil {
		t.Fatalf("registering pool: %v", err)
	}
	l.Pools = pools

	_, delegVK, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("generating key pair: %v", err)
	}
	accID := ledger.AccountIDFromKey(ed25519.PublicKey(delegVK.Bytes()))
	accounts, err := l.Accounts.Credit(accID, ed25519.PublicKey(delegVK.Bytes()), 1000)
	if err != nil {
		t.Fatalf("seeding account: %v", err)
	}
	accounts, err = accounts.SetDelegation(accID, ledger.DelegationType{Kind: ledger.DelegationFull, Pool: pool.ID})
	if err != nil {
		t.Fatalf("setting delegation: %v", err)
	}
	l.Accounts = accounts

	before := ledger.ComputeStakeDistribution(l.Accounts, l.Pools, 0)
	if before.Pools[pool.ID] != 1000 {
		t.Fatalf("expected 1000 stake assigned to active pool, got %d", before.Pools[pool.ID])
	}

	retired, err := l.Pools.Retire(pool.ID, 0)
	if err != nil {
		t.Fatalf("retiring pool: %v", err)
	}
	l.Pools = retired

	after := ledger.ComputeStakeDistribution(l.Accounts, l.Pools, 0)
	if after.Pools[pool.ID] != 0 {
		t.Fatalf("expected retired pool to carry no stake, got %d", after.Pools[pool.ID])
	}
	if after.Dangling != 1000 {
		t.Fatalf("expected stake delegated to a retired pool to count as dangling, got %d", after.Dangling)
	}
}

func TestApplyBlockRejectsParentMismatch(t *testing.T) {
	l := ledger.NewLedger(testSettings())
	var block0Hash common.Hash32
	block := ledger.Block{
		Hash:       common.Hash32{1},
		ParentHash: common.Hash32{0xff},
		Date:       common.BlockDate{Epoch: 0, Slot: 1},
	}
	// force ChainLength > 0 so the parent check is exercised
	l.ChainLength = 1
	l.LastBlockHash = common.Hash32{0xaa}

	_, err := ledger.ApplyBlock(l, block, block0Hash)
	if err != ledger.ErrParentMismatch {
		t.Fatalf("expected ErrParentMismatch, got %v", err)
	}
}
