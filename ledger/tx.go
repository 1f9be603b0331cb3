package ledger

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"golang.org/x/crypto/ed25519"
)

// SignCodeV1 prefixes the bytes every transaction signature is made over.
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// Signature authorizes a transaction on behalf of PubKey.
type Signature struct {
	PubKey    tokenswap.Address
	Signature []byte
}

// Transaction is a list of instructions executed atomically. Either all of
// them succeed or none of their changes is persisted.
type Transaction struct {
	// Nonce makes otherwise identical transactions sign differently.
	Nonce        uint64
	Instructions []tokenswap.Instruction
	Signatures   []Signature
}

// NewTransaction returns an unsigned transaction.
func NewTransaction(nonce uint64, ixs ...tokenswap.Instruction) *Transaction {
	return &Transaction{Nonce: nonce, Instructions: ixs}
}

func (tx *Transaction) wire(withSignatures bool) wireTx {
	w := wireTx{
		Nonce:        tx.Nonce,
		Instructions: make([]wireInstruction, len(tx.Instructions)),
	}
	for i, ix := range tx.Instructions {
		wi := wireInstruction{
			ProgramID: ix.ProgramID.Bytes(),
			Data:      ix.Data,
			Accounts:  make([]wireMeta, len(ix.Accounts)),
		}
		for j, m := range ix.Accounts {
			wi.Accounts[j] = wireMeta{Address: m.Address.Bytes(), IsSigner: m.IsSigner, IsWritable: m.IsWritable}
		}
		w.Instructions[i] = wi
	}
	if withSignatures {
		for _, s := range tx.Signatures {
			w.Signatures = append(w.Signatures, wireSignature{PubKey: s.PubKey.Bytes(), Signature: s.Signature})
		}
	}
	return w
}

// SignBytes returns the bytes signed by every signer of the transaction.
//
// The layout is
//
//   version | len(chainID) | chainID      | nonce            | instructions
//   4 bytes | uint8        | ascii string | uint64 bigendian | amino encoded
//
// prehashed with sha512.
func (tx *Transaction) SignBytes(chainID string) ([]byte, error) {
	if chainID == "" || len(chainID) > 255 {
		return nil, errors.ErrInvalidInput.Newf("chain id %q", chainID)
	}
	body, err := cdc.MarshalBinaryBare(tx.wire(false))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	nonce := make([]byte, 8)
	binary.BigEndian.PutUint64(nonce, tx.Nonce)

	h := sha512.New()
	h.Write(SignCodeV1)
	h.Write([]byte{uint8(len(chainID))})
	h.Write([]byte(chainID))
	h.Write(nonce)
	h.Write(body)
	return h.Sum(nil), nil
}

// Sign appends the signature of the key owner.
func (tx *Transaction) Sign(chainID string, key ed25519.PrivateKey) error {
	msg, err := tx.SignBytes(chainID)
	if err != nil {
		return err
	}
	pub, err := tokenswap.NewAddress(key.Public().(ed25519.PublicKey))
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, Signature{PubKey: pub, Signature: ed25519.Sign(key, msg)})
	return nil
}

// Verify checks every signature and returns the set of addresses that
// signed. Each account an instruction requires a signature from must be in
// that set.
func (tx *Transaction) Verify(chainID string) (map[tokenswap.Address]bool, error) {
	if len(tx.Instructions) == 0 {
		return nil, errors.ErrInvalidInput.New("no instructions")
	}
	msg, err := tx.SignBytes(chainID)
	if err != nil {
		return nil, err
	}
	signers := make(map[tokenswap.Address]bool, len(tx.Signatures))
	for _, s := range tx.Signatures {
		if !ed25519.Verify(ed25519.PublicKey(s.PubKey[:]), msg, s.Signature) {
			return nil, errors.ErrSignatureFailure.Newf("signer %s", s.PubKey)
		}
		signers[s.PubKey] = true
	}
	for _, ix := range tx.Instructions {
		for _, m := range ix.Accounts {
			if m.IsSigner && !signers[m.Address] {
				return nil, errors.ErrMissingRequiredSignature.Newf("account %s", m.Address)
			}
		}
	}
	return signers, nil
}

// Marshal returns the binary form of a signed transaction.
func (tx *Transaction) Marshal() ([]byte, error) {
	raw, err := cdc.MarshalBinaryBare(tx.wire(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return raw, nil
}

// UnmarshalTransaction decodes a transaction serialized with Marshal.
func UnmarshalTransaction(raw []byte) (*Transaction, error) {
	var w wireTx
	if err := cdc.UnmarshalBinaryBare(raw, &w); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	tx := &Transaction{Nonce: w.Nonce}
	for _, wi := range w.Instructions {
		programID, err := tokenswap.NewAddress(wi.ProgramID)
		if err != nil {
			return nil, err
		}
		ix := tokenswap.Instruction{ProgramID: programID, Data: wi.Data}
		for _, m := range wi.Accounts {
			a, err := tokenswap.NewAddress(m.Address)
			if err != nil {
				return nil, err
			}
			ix.Accounts = append(ix.Accounts, tokenswap.AccountMeta{Address: a, IsSigner: m.IsSigner, IsWritable: m.IsWritable})
		}
		tx.Instructions = append(tx.Instructions, ix)
	}
	for _, s := range w.Signatures {
		pub, err := tokenswap.NewAddress(s.PubKey)
		if err != nil {
			return nil, err
		}
		tx.Signatures = append(tx.Signatures, Signature{PubKey: pub, Signature: s.Signature})
	}
	return tx, nil
}

// accountMetas merges the account references of all instructions. An
// account is a signer or writable if any instruction marks it so.
func (tx *Transaction) accountMetas() []tokenswap.AccountMeta {
	index := make(map[tokenswap.Address]int)
	var metas []tokenswap.AccountMeta
	for _, ix := range tx.Instructions {
		for _, m := range ix.Accounts {
			i, ok := index[m.Address]
			if !ok {
				index[m.Address] = len(metas)
				metas = append(metas, m)
				continue
			}
			metas[i].IsSigner = metas[i].IsSigner || m.IsSigner
			metas[i].IsWritable = metas[i].IsWritable || m.IsWritable
		}
	}
	return metas
}
