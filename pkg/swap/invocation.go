package swap

import (
	"fmt"
	"math/big"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"

	"soroban-swap/pkg/types"
)

// swapFunction is the single contract call shape this protocol supports.
const swapFunction = "swap"

var i128Max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))

// Invocation is the typed form of the swap contract call. It is the single
// codec between swap terms and the call's positional argument list, used by
// both the builder and the extractor so the two cannot drift.
type Invocation struct {
	ContractID string
	AddressA   string
	AddressB   string
	TokenA     string
	TokenB     string
	AmountA    *big.Int
	MinAmountA *big.Int
	AmountB    *big.Int
	MinAmountB *big.Int
}

// HostFunction encodes the invocation into its ledger-native form. Argument
// order is fixed: addressA, addressB, tokenA, tokenB, amountA, minAmountA,
// amountB, minAmountB.
func (inv *Invocation) HostFunction() (xdr.HostFunction, error) {
	contract, err := contractScAddress(inv.ContractID)
	if err != nil {
		return xdr.HostFunction{}, err
	}

	addressA, err := accountScVal(inv.AddressA)
	if err != nil {
		return xdr.HostFunction{}, err
	}
	addressB, err := accountScVal(inv.AddressB)
	if err != nil {
		return xdr.HostFunction{}, err
	}
	tokenA, err := contractScVal(inv.TokenA)
	if err != nil {
		return xdr.HostFunction{}, err
	}
	tokenB, err := contractScVal(inv.TokenB)
	if err != nil {
		return xdr.HostFunction{}, err
	}

	amounts := make([]xdr.ScVal, 0, 4)
	for _, v := range []*big.Int{inv.AmountA, inv.MinAmountA, inv.AmountB, inv.MinAmountB} {
		val, err := i128ScVal(v)
		if err != nil {
			return xdr.HostFunction{}, err
		}
		amounts = append(amounts, val)
	}

	return xdr.HostFunction{
		Type: xdr.HostFunctionTypeHostFunctionTypeInvokeContract,
		InvokeContract: &xdr.InvokeContractArgs{
			ContractAddress: contract,
			FunctionName:    xdr.ScSymbol(swapFunction),
			Args:            xdr.ScVec{addressA, addressB, tokenA, tokenB, amounts[0], amounts[1], amounts[2], amounts[3]},
		},
	}, nil
}

// invocationFromHostFunction is the exact inverse of HostFunction.
func invocationFromHostFunction(fn xdr.HostFunction) (*Invocation, error) {
	if fn.Type != xdr.HostFunctionTypeHostFunctionTypeInvokeContract {
		return nil, fmt.Errorf("%w: not a contract invocation", ErrBadEnvelope)
	}
	call := fn.InvokeContract
	if string(call.FunctionName) != swapFunction {
		return nil, fmt.Errorf("%w: unexpected function %q", ErrBadEnvelope, call.FunctionName)
	}
	if len(call.Args) != 8 {
		return nil, fmt.Errorf("%w: expected 8 arguments, got %d", ErrBadEnvelope, len(call.Args))
	}

	contractID, err := contractIDFromScAddress(call.ContractAddress)
	if err != nil {
		return nil, err
	}

	inv := &Invocation{ContractID: contractID}
	if inv.AddressA, err = accountFromScVal(call.Args[0]); err != nil {
		return nil, err
	}
	if inv.AddressB, err = accountFromScVal(call.Args[1]); err != nil {
		return nil, err
	}
	if inv.TokenA, err = contractFromScVal(call.Args[2]); err != nil {
		return nil, err
	}
	if inv.TokenB, err = contractFromScVal(call.Args[3]); err != nil {
		return nil, err
	}

	amounts := make([]*big.Int, 0, 4)
	for _, val := range call.Args[4:] {
		v, err := i128FromScVal(val)
		if err != nil {
			return nil, err
		}
		amounts = append(amounts, v)
	}
	inv.AmountA, inv.MinAmountA, inv.AmountB, inv.MinAmountB = amounts[0], amounts[1], amounts[2], amounts[3]

	return inv, nil
}

// Terms returns the invocation as display-layer swap terms.
func (inv *Invocation) Terms() *types.SwapTerms {
	return &types.SwapTerms{
		AddressA:   inv.AddressA,
		AddressB:   inv.AddressB,
		TokenA:     inv.TokenA,
		TokenB:     inv.TokenB,
		AmountA:    inv.AmountA,
		MinAmountA: inv.MinAmountA,
		AmountB:    inv.AmountB,
		MinAmountB: inv.MinAmountB,
	}
}

func contractScAddress(contractID string) (xdr.ScAddress, error) {
	raw, err := strkey.Decode(strkey.VersionByteContract, contractID)
	if err != nil {
		return xdr.ScAddress{}, fmt.Errorf("invalid contract id %q: %w", contractID, err)
	}
	var hash xdr.Hash
	copy(hash[:], raw)
	return xdr.ScAddress{
		Type:       xdr.ScAddressTypeScAddressTypeContract,
		ContractId: &hash,
	}, nil
}

func contractIDFromScAddress(addr xdr.ScAddress) (string, error) {
	if addr.Type != xdr.ScAddressTypeScAddressTypeContract {
		return "", fmt.Errorf("%w: expected contract address", ErrBadEnvelope)
	}
	return strkey.Encode(strkey.VersionByteContract, addr.ContractId[:])
}

func accountScVal(address string) (xdr.ScVal, error) {
	aid, err := xdr.AddressToAccountId(address)
	if err != nil {
		return xdr.ScVal{}, fmt.Errorf("invalid account address %q: %w", address, err)
	}
	return xdr.ScVal{
		Type: xdr.ScValTypeScvAddress,
		Address: &xdr.ScAddress{
			Type:      xdr.ScAddressTypeScAddressTypeAccount,
			AccountId: &aid,
		},
	}, nil
}

func accountFromScVal(val xdr.ScVal) (string, error) {
	if val.Type != xdr.ScValTypeScvAddress || val.Address.Type != xdr.ScAddressTypeScAddressTypeAccount {
		return "", fmt.Errorf("%w: expected account address argument", ErrBadEnvelope)
	}
	return val.Address.AccountId.Address(), nil
}

func contractScVal(contractID string) (xdr.ScVal, error) {
	addr, err := contractScAddress(contractID)
	if err != nil {
		return xdr.ScVal{}, err
	}
	return xdr.ScVal{Type: xdr.ScValTypeScvAddress, Address: &addr}, nil
}

func contractFromScVal(val xdr.ScVal) (string, error) {
	if val.Type != xdr.ScValTypeScvAddress {
		return "", fmt.Errorf("%w: expected contract address argument", ErrBadEnvelope)
	}
	return contractIDFromScAddress(*val.Address)
}

// i128ScVal encodes a non-negative amount as a 128-bit signed integer value.
func i128ScVal(v *big.Int) (xdr.ScVal, error) {
	if v == nil || v.Sign() < 0 {
		return xdr.ScVal{}, fmt.Errorf("amount must be a non-negative integer")
	}
	if v.Cmp(i128Max) > 0 {
		return xdr.ScVal{}, fmt.Errorf("amount %s overflows i128", v)
	}

	hi := new(big.Int).Rsh(v, 64)
	lo := new(big.Int).And(v, new(big.Int).SetUint64(^uint64(0)))

	return xdr.ScVal{
		Type: xdr.ScValTypeScvI128,
		I128: &xdr.Int128Parts{
			Hi: xdr.Int64(hi.Int64()),
			Lo: xdr.Uint64(lo.Uint64()),
		},
	}, nil
}

func i128FromScVal(val xdr.ScVal) (*big.Int, error) {
	if val.Type != xdr.ScValTypeScvI128 {
		return nil, fmt.Errorf("%w: expected i128 amount argument", ErrBadEnvelope)
	}
	if val.I128.Hi < 0 {
		return nil, fmt.Errorf("%w: negative amount", ErrBadEnvelope)
	}

	v := new(big.Int).SetInt64(int64(val.I128.Hi))
	v.Lsh(v, 64)
	return v.Or(v, new(big.Int).SetUint64(uint64(val.I128.Lo))), nil
}
