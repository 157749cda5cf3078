// Package devnet runs throwaway anvil nodes for exercising wallets against a real chain.
package devnet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"syscall"
	"time"
)

// DefaultChainID is anvil's chain ID when none is given
const DefaultChainID = 31337

// Options configures a node
type Options struct {
	// Port to listen on; zero picks a free one
	Port int
	// ChainID to report; zero means DefaultChainID
	ChainID uint64
	// LogDir receives the node's output; empty means os.TempDir
	LogDir string
	// StartTimeout bounds the wait for the RPC to answer
	StartTimeout time.Duration
}

// Node is a running anvil process
type Node struct {
	Port    int
	ChainID uint64
	LogFile string

	cmd        *exec.Cmd
	done       chan struct{}
	httpClient *http.Client
}

// RPCRequest represents a JSON-RPC request
type RPCRequest struct {
	Jsonrpc string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

// RPCResponse represents a JSON-RPC response
type RPCResponse struct {
	Jsonrpc string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
	ID      int             `json:"id"`
}

// RPCError represents a JSON-RPC error
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Available reports whether the anvil binary is on PATH
func Available() bool {
	_, err := exec.LookPath("anvil")
	return err == nil
}

// Start launches anvil and waits until its RPC answers eth_chainId
func Start(ctx context.Context, opts Options) (*Node, error) {
	if opts.ChainID == 0 {
		opts.ChainID = DefaultChainID
	}
	if opts.Port == 0 {
		port, err := freePort()
		if err != nil {
			return nil, fmt.Errorf("failed to find a free port: %w", err)
		}
		opts.Port = port
	}
	if opts.LogDir == "" {
		opts.LogDir = os.TempDir()
	}
	if opts.StartTimeout == 0 {
		opts.StartTimeout = 10 * time.Second
	}

	node := &Node{
		Port:       opts.Port,
		ChainID:    opts.ChainID,
		LogFile:    filepath.Join(opts.LogDir, fmt.Sprintf("mkt-anvil-%d.log", opts.Port)),
		done:       make(chan struct{}),
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}

	logFile, err := os.Create(node.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	node.cmd = exec.Command("anvil",
		"--port", strconv.Itoa(opts.Port),
		"--chain-id", strconv.FormatUint(opts.ChainID, 10),
	)
	node.cmd.Stdout = logFile
	node.cmd.Stderr = logFile

	if err := node.cmd.Start(); err != nil {
		logFile.Close()
		return nil, fmt.Errorf("failed to start anvil: %w", err)
	}

	go func() {
		_ = node.cmd.Wait()
		logFile.Close()
		close(node.done)
	}()

	if err := node.waitReady(ctx, opts.StartTimeout); err != nil {
		_ = node.Stop()
		return nil, fmt.Errorf("anvil did not become ready (logs: %s): %w", node.LogFile, err)
	}
	return node, nil
}

// RPCURL returns the node's HTTP endpoint
func (n *Node) RPCURL() string {
	return fmt.Sprintf("http://127.0.0.1:%d", n.Port)
}

// Stop terminates the node, killing it if it does not exit within five seconds
func (n *Node) Stop() error {
	if n.cmd == nil || n.cmd.Process == nil {
		return nil
	}

	select {
	case <-n.done:
		return nil
	default:
	}

	if err := n.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		if err := n.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("failed to kill process: %w", err)
		}
	}

	select {
	case <-n.done:
	case <-time.After(5 * time.Second):
		_ = n.cmd.Process.Kill()
		<-n.done
	}
	return nil
}

// SetCode replaces the bytecode at address
func (n *Node) SetCode(ctx context.Context, address, code string) error {
	return n.call(ctx, "anvil_setCode", []interface{}{address, code}, nil)
}

// SetBalance sets the wei balance of address
func (n *Node) SetBalance(ctx context.Context, address, weiHex string) error {
	return n.call(ctx, "anvil_setBalance", []interface{}{address, weiHex}, nil)
}

// waitReady polls eth_chainId until it answers or timeout passes
func (n *Node) waitReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		var chainID string
		err := n.call(ctx, "eth_chainId", []interface{}{}, &chainID)
		if err == nil {
			return nil
		}

		select {
		case <-n.done:
			return fmt.Errorf("anvil exited")
		case <-ctx.Done():
			return fmt.Errorf("%w (last error: %v)", ctx.Err(), err)
		case <-ticker.C:
		}
	}
}

// call makes a JSON-RPC call and decodes the result into out when non-nil
func (n *Node) call(ctx context.Context, method string, params []interface{}, out interface{}) error {
	jsonData, err := json.Marshal(RPCRequest{
		Jsonrpc: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.RPCURL(), bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error: %d", httpResp.StatusCode)
	}

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var resp RPCResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if resp.Error != nil {
		return fmt.Errorf("RPC error: %s", resp.Error.Message)
	}

	if out != nil {
		return json.Unmarshal(resp.Result, out)
	}
	return nil
}

func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
