package dexparser

import (
	"encoding/binary"
	"encoding/json"
	"strconv"
)

// SPL Token (and Token-2022) instruction opcodes.
const (
	splTransfer        byte = 3
	splMintTo          byte = 7
	splBurn            byte = 8
	splTransferChecked byte = 12
	splMintToChecked   byte = 14
	splBurnChecked     byte = 15
)

// System program instruction index for a lamport transfer (u32 LE prefix).
const systemTransferIndex uint32 = 2

// extractTransfers walks every inner-instruction set and produces the map
// from instruction identity key to the token movements it caused. Top-level
// system transfers land under the "transfer" key. Unparseable instructions
// are omitted, never fatal.
func extractTransfers(adapter *TransactionAdapter) map[string][]TransferData {
	transfers := make(map[string][]TransferData)

	for _, set := range adapter.InnerSets() {
		outerProg := ""
		if outer := adapter.OuterInstructions(); set.OuterIndex < len(outer) {
			outerProg = adapter.programIDOf(outer[set.OuterIndex])
		}
		// Native system-level call trees carry no DEX semantics.
		if isSystemProgram(outerProg) {
			continue
		}

		groupKey := outerProg + ":" + strconv.Itoa(set.OuterIndex)
		for j, in := range set.Instructions {
			progID := adapter.programIDOf(in)
			// A CPI into a different protocol re-homes subsequent transfers
			// under the sub-call (router delegating into an AMM).
			if progID != outerProg && progID != "" && !isPassThroughProgram(progID) {
				groupKey = progID + ":" + strconv.Itoa(set.OuterIndex) + "-" + strconv.Itoa(j)
			}

			td := decodeTransferInstruction(adapter, in, makeIdx(set.OuterIndex, j))
			if td == nil {
				continue
			}
			transfers[groupKey] = append(transfers[groupKey], *td)
		}
	}

	// Plain top-level SOL movements (wallet-to-wallet, tips) have no inner
	// structure and are grouped under "transfer".
	for i, in := range adapter.OuterInstructions() {
		progID := adapter.programIDOf(in)
		if progID != SYSTEM_PROGRAM_ID {
			continue
		}
		td := decodeTransferInstruction(adapter, in, makeIdx(i, -1))
		if td == nil {
			continue
		}
		transfers["transfer"] = append(transfers["transfer"], *td)
	}

	return transfers
}

// decodeTransferInstruction recognizes token-movement-shaped instructions in
// either wire shape. The parsed path wins when the node already decoded the
// instruction; otherwise the compiled discriminator path runs. Returns nil
// for anything that is not a token movement.
func decodeTransferInstruction(adapter *TransactionAdapter, in Instruction, idx string) *TransferData {
	if in.Parsed != nil && in.Parsed.Parsed != nil {
		return decodeParsedTransfer(adapter, in.Parsed, idx)
	}
	return decodeCompiledTransfer(adapter, in, idx)
}

func decodeParsedTransfer(adapter *TransactionAdapter, in *ParsedInstruction, idx string) *TransferData {
	info := in.Parsed.Info
	if info == nil {
		return nil
	}

	var td *TransferData
	switch in.Parsed.Type {
	case "transfer":
		if in.Program == "system" || in.ProgramID == SYSTEM_PROGRAM_ID {
			lamports, ok := infoUint(info, "lamports")
			if !ok {
				return nil
			}
			td = &TransferData{
				Type: TransferNative,
				Info: newTokenInfo(WSOL_MINT, lamports, 9),
			}
			td.Info.Source = infoString(info, "source")
			td.Info.Destination = infoString(info, "destination")
			break
		}
		amount, ok := infoUint(info, "amount")
		if !ok {
			return nil
		}
		src := infoString(info, "source")
		dst := infoString(info, "destination")
		mint, decimals := resolveMint(adapter, src, dst)
		td = &TransferData{Type: TransferSPL, Info: newTokenInfo(mint, amount, decimals)}
		td.Info.Source = src
		td.Info.Destination = dst
		td.Info.Authority = infoString(info, "authority")

	case "transferChecked":
		mint := infoString(info, "mint")
		amount, decimals, ok := parsedTokenAmount(info)
		if !ok {
			return nil
		}
		td = &TransferData{Type: TransferChecked, Info: newTokenInfo(mint, amount, decimals)}
		td.Info.Source = infoString(info, "source")
		td.Info.Destination = infoString(info, "destination")
		td.Info.Authority = infoString(info, "authority")

	case "mintTo", "mintToChecked":
		amount, ok := infoUint(info, "amount")
		if !ok {
			if amount, _, ok = parsedTokenAmount(info); !ok {
				return nil
			}
		}
		mint := infoString(info, "mint")
		decimals, _ := adapter.DecimalsFor(mint)
		td = &TransferData{Type: TransferMintTo, Info: newTokenInfo(mint, amount, decimals)}
		td.Info.Destination = infoString(info, "account")
		td.Info.Authority = infoString(info, "mintAuthority")

	case "burn", "burnChecked":
		amount, ok := infoUint(info, "amount")
		if !ok {
			if amount, _, ok = parsedTokenAmount(info); !ok {
				return nil
			}
		}
		mint := infoString(info, "mint")
		decimals, _ := adapter.DecimalsFor(mint)
		td = &TransferData{Type: TransferBurn, Info: newTokenInfo(mint, amount, decimals)}
		td.Info.Source = infoString(info, "account")
		td.Info.Authority = infoString(info, "authority")

	default:
		return nil
	}

	td.ProgramID = in.ProgramID
	td.Idx = idx
	finishTransfer(adapter, td)
	return td
}

func decodeCompiledTransfer(adapter *TransactionAdapter, in Instruction, idx string) *TransferData {
	progID := adapter.programIDOf(in)
	data := adapter.dataOf(in)
	accounts := adapter.accountsOf(in)
	if len(data) == 0 {
		return nil
	}

	var td *TransferData
	switch {
	case progID == SYSTEM_PROGRAM_ID:
		if len(data) < 12 || binary.LittleEndian.Uint32(data[:4]) != systemTransferIndex || len(accounts) < 2 {
			return nil
		}
		lamports := binary.LittleEndian.Uint64(data[4:12])
		td = &TransferData{Type: TransferNative, Info: newTokenInfo(WSOL_MINT, lamports, 9)}
		td.Info.Source = accounts[0]
		td.Info.Destination = accounts[1]

	case isTokenProgram(progID):
		if len(data) < 9 {
			return nil
		}
		amount := binary.LittleEndian.Uint64(data[1:9])
		switch data[0] {
		case splTransfer:
			if len(accounts) < 3 {
				return nil
			}
			mint, decimals := resolveMint(adapter, accounts[0], accounts[1])
			td = &TransferData{Type: TransferSPL, Info: newTokenInfo(mint, amount, decimals)}
			td.Info.Source = accounts[0]
			td.Info.Destination = accounts[1]
			td.Info.Authority = accounts[2]
		case splTransferChecked:
			if len(accounts) < 4 {
				return nil
			}
			mint := accounts[1]
			decimals, ok := adapter.DecimalsFor(mint)
			if !ok && len(data) >= 10 {
				decimals = data[9]
			}
			td = &TransferData{Type: TransferChecked, Info: newTokenInfo(mint, amount, decimals)}
			td.Info.Source = accounts[0]
			td.Info.Destination = accounts[2]
			td.Info.Authority = accounts[3]
		case splMintTo, splMintToChecked:
			if len(accounts) < 3 {
				return nil
			}
			mint := accounts[0]
			decimals, _ := adapter.DecimalsFor(mint)
			td = &TransferData{Type: TransferMintTo, Info: newTokenInfo(mint, amount, decimals)}
			td.Info.Destination = accounts[1]
			td.Info.Authority = accounts[2]
		case splBurn, splBurnChecked:
			if len(accounts) < 3 {
				return nil
			}
			mint := accounts[1]
			decimals, _ := adapter.DecimalsFor(mint)
			td = &TransferData{Type: TransferBurn, Info: newTokenInfo(mint, amount, decimals)}
			td.Info.Source = accounts[0]
			td.Info.Authority = accounts[2]
		default:
			return nil
		}

	default:
		return nil
	}

	td.ProgramID = progID
	td.Idx = idx
	finishTransfer(adapter, td)
	return td
}

// finishTransfer fills owner/balance context and tags fee-collector sinks.
func finishTransfer(adapter *TransactionAdapter, td *TransferData) {
	if td.Info.Destination != "" {
		if info, ok := adapter.TokenAccountInfo(td.Info.Destination); ok {
			td.Info.DestinationOwner = info.Owner
		}
		td.Info.DestBalance = adapter.TokenAccountBalance(td.Info.Destination)
	}
	if td.Info.Source != "" {
		td.Info.SourceBalance = adapter.TokenAccountBalance(td.Info.Source)
	}
	if isFeeCollector(td.Info.Destination) || isFeeCollector(td.Info.DestinationOwner) {
		td.IsFee = true
	}
}

// resolveMint prefers the destination account's mint, falling back to the
// source side.
func resolveMint(adapter *TransactionAdapter, source, destination string) (string, uint8) {
	if info, ok := adapter.TokenAccountInfo(destination); ok && info.Mint != "" {
		return info.Mint, info.Decimals
	}
	if info, ok := adapter.TokenAccountInfo(source); ok && info.Mint != "" {
		return info.Mint, info.Decimals
	}
	return "", 0
}

func parsedTokenAmount(info map[string]interface{}) (uint64, uint8, bool) {
	ta, ok := info["tokenAmount"].(map[string]interface{})
	if !ok {
		return 0, 0, false
	}
	amount, ok := infoUint(ta, "amount")
	if !ok {
		return 0, 0, false
	}
	decimals, _ := infoUint(ta, "decimals")
	return amount, uint8(decimals), true
}

// infoString reads a string field from node-decoded instruction info.
func infoString(info map[string]interface{}, key string) string {
	if info == nil {
		return ""
	}
	if s, ok := info[key].(string); ok {
		return s
	}
	return ""
}

// infoUint reads an integer field that JSON may carry as number, string, or
// json.Number.
func infoUint(info map[string]interface{}, key string) (uint64, bool) {
	if info == nil {
		return 0, false
	}
	switch v := info[key].(type) {
	case float64:
		return uint64(v), true
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	case json.Number:
		n, err := strconv.ParseUint(v.String(), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func parseRawAmount(s string) uint64 {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
