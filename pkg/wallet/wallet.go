package wallet

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// ErrNoWallet is returned when no wallet capability is configured.
// It is an expected condition, not a failure.
var ErrNoWallet = errors.New("no wallet capability")

// ErrDeclined is returned when the wallet refused the request.
var ErrDeclined = errors.New("request declined by wallet")

// ErrInvalidAddress is returned for strings that are not 20-byte hex addresses.
var ErrInvalidAddress = errors.New("invalid wallet address")

// userRejectedCode is the EIP-1193 "user rejected request" error code.
const userRejectedCode = 4001

// Capability is the wallet surface the dashboard depends on.
type Capability interface {
	RequestAccounts(ctx context.Context) ([]string, error)
	GetBalance(ctx context.Context, address string) (*big.Int, error)
}

// ValidAddress reports whether s is a well-formed hex address.
func ValidAddress(s string) bool {
	return common.IsHexAddress(strings.TrimSpace(s))
}

// NormalizeAddress returns the checksummed form of s.
func NormalizeAddress(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return "", errors.Wrapf(ErrInvalidAddress, "%q", s)
	}
	return common.HexToAddress(s).Hex(), nil
}

// RPCWallet implements Capability over a JSON-RPC endpoint exposing
// eth_requestAccounts and eth_getBalance.
type RPCWallet struct {
	url string

	mu     sync.Mutex
	client *rpc.Client
}

// New returns nil when url is empty, meaning the capability is absent.
func New(url string) *RPCWallet {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	return &RPCWallet{url: url}
}

// FromConfig converts the optional RPC URL into a Capability, returning a
// nil interface when none is configured.
func FromConfig(url string) Capability {
	w := New(url)
	if w == nil {
		return nil
	}
	return w
}

func (w *RPCWallet) dial(ctx context.Context) (*rpc.Client, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.client != nil {
		return w.client, nil
	}
	c, err := rpc.DialContext(ctx, w.url)
	if err != nil {
		return nil, errors.Wrapf(err, "dial wallet %s", w.url)
	}
	w.client = c
	return c, nil
}

// RequestAccounts asks the wallet for its exposed accounts.
func (w *RPCWallet) RequestAccounts(ctx context.Context) ([]string, error) {
	if w == nil {
		return nil, ErrNoWallet
	}
	c, err := w.dial(ctx)
	if err != nil {
		return nil, err
	}
	var accounts []string
	if err := c.CallContext(ctx, &accounts, "eth_requestAccounts"); err != nil {
		return nil, classify(err, "eth_requestAccounts")
	}
	return accounts, nil
}

// GetBalance returns the native balance of address in wei.
func (w *RPCWallet) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	if w == nil {
		return nil, ErrNoWallet
	}
	if !ValidAddress(address) {
		return nil, errors.Wrapf(ErrInvalidAddress, "%q", address)
	}
	c, err := w.dial(ctx)
	if err != nil {
		return nil, err
	}
	bal, err := ethclient.NewClient(c).BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, classify(err, "eth_getBalance")
	}
	return bal, nil
}

// Close releases the underlying connection.
func (w *RPCWallet) Close() {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.client != nil {
		w.client.Close()
		w.client = nil
	}
}

func classify(err error, method string) error {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == userRejectedCode {
		return errors.Wrap(ErrDeclined, method)
	}
	return errors.Wrap(err, method)
}
