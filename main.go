package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/AlekSi/pointer"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/smartxCrypto/solana-scan-node-new-sub000/dexparser"
)

type parseReq struct {
	Signature string `json:"signature"`
}

type apiError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSONMaybePretty(w http.ResponseWriter, status int, v interface{}, pretty bool) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	_ = enc.Encode(v)
}

func main() {
	_ = godotenv.Load()
	log := logrus.WithField("component", "server")

	rpcURL := os.Getenv("SOLANA_RPC_URL")
	if rpcURL == "" {
		rpcURL = rpc.MainNetBeta_RPC
	}
	const rpcTimeout = 10 * time.Second

	// Shared Solana RPC client (safe for concurrent use)
	client := rpc.New(rpcURL)

	parser := dexparser.NewDexParser(dexparser.ParseConfig{
		TryUnknownDEX: os.Getenv("TRY_UNKNOWN_DEX") == "1",
	})

	// Health endpoint
	http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Parse endpoint: supports POST (JSON) and GET (?signature=...&pretty=1)
	http.HandleFunc("/parse", func(w http.ResponseWriter, r *http.Request) {
		pretty := r.URL.Query().Get("pretty") == "1" || r.URL.Query().Get("pretty") == "true"

		var sigStr string
		switch r.Method {
		case http.MethodPost:
			var req parseReq
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeJSONMaybePretty(w, http.StatusBadRequest, apiError{Error: "bad_request", Details: "invalid JSON body"}, pretty)
				return
			}
			sigStr = req.Signature
		case http.MethodGet:
			sigStr = r.URL.Query().Get("signature")
		default:
			writeJSONMaybePretty(w, http.StatusMethodNotAllowed, apiError{Error: "method_not_allowed"}, pretty)
			return
		}
		if sigStr == "" {
			writeJSONMaybePretty(w, http.StatusBadRequest, apiError{Error: "bad_request", Details: "signature is required"}, pretty)
			return
		}

		sig, err := solana.SignatureFromBase58(sigStr)
		if err != nil {
			writeJSONMaybePretty(w, http.StatusBadRequest, apiError{Error: "bad_request", Details: "invalid signature (base58)"}, pretty)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), rpcTimeout)
		defer cancel()

		txRes, err := client.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
			Commitment:                     rpc.CommitmentConfirmed,
			MaxSupportedTransactionVersion: pointer.ToUint64(0),
		})
		if err != nil {
			low := strings.ToLower(err.Error())
			if errors.Is(err, context.DeadlineExceeded) || strings.Contains(low, "deadline") || strings.Contains(low, "timeout") {
				writeJSONMaybePretty(w, http.StatusGatewayTimeout, apiError{Error: "rpc_timeout"}, pretty)
				return
			}
			writeJSONMaybePretty(w, http.StatusBadGateway, apiError{Error: "rpc_error", Details: err.Error()}, pretty)
			return
		}
		if txRes == nil {
			writeJSONMaybePretty(w, http.StatusNotFound, apiError{Error: "not_found", Details: "transaction not found"}, pretty)
			return
		}

		tx, err := txRes.Transaction.GetTransaction()
		if err != nil {
			writeJSONMaybePretty(w, http.StatusUnprocessableEntity, apiError{Error: "decode_error", Details: err.Error()}, pretty)
			return
		}

		var blockTime int64
		if txRes.BlockTime != nil {
			blockTime = txRes.BlockTime.Time().Unix()
		}
		result, err := parser.ParseTransaction(tx, txRes.Meta, txRes.Slot, blockTime)
		if err != nil {
			writeJSONMaybePretty(w, http.StatusUnprocessableEntity, apiError{Error: "parse_error", Details: err.Error()}, pretty)
			return
		}

		writeJSONMaybePretty(w, http.StatusOK, result, pretty)
	})

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.WithFields(logrus.Fields{"addr": addr, "rpc": rpcURL}).Info("listening")
	log.Fatal(srv.ListenAndServe())
}
