package payment

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/0xan000n/logos-service/internal/config"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ChainRail 链上支付通道，通过节点发送原生转账
type ChainRail struct {
	client     *ethclient.Client
	privateKey *ecdsa.PrivateKey
	from       common.Address
	chainId    *big.Int
	gasLimit   uint64
}

// NewChainRail 创建链上支付通道
func NewChainRail(cfg config.ChainConfig) (*ChainRail, error) {
	// 连接链客户端
	client, err := ethclient.Dial(cfg.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to chain client: %w", err)
	}

	// 解析私钥
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	from := crypto.PubkeyToAddress(privateKey.PublicKey)

	return &ChainRail{
		client:     client,
		privateKey: privateKey,
		from:       from,
		chainId:    big.NewInt(cfg.ChainId),
		gasLimit:   cfg.GasLimit,
	}, nil
}

// Client 暴露底层链客户端，供回执确认使用
func (r *ChainRail) Client() *ethclient.Client {
	return r.client
}

// Transfer 发送原生转账并返回交易哈希
func (r *ChainRail) Transfer(ctx context.Context, to string, amount int64) (string, error) {
	if !common.IsHexAddress(to) {
		return "", fmt.Errorf("invalid recipient address: %s", to)
	}

	nonce, err := r.client.PendingNonceAt(ctx, r.from)
	if err != nil {
		return "", fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := r.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get gas price: %w", err)
	}

	tx := types.NewTransaction(
		nonce,
		common.HexToAddress(to),
		big.NewInt(amount),
		r.gasLimit,
		gasPrice,
		nil,
	)

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(r.chainId), r.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := r.client.SendTransaction(ctx, signedTx); err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}

	return signedTx.Hash().Hex(), nil
}
