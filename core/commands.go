package core

import (
	"sync/atomic"

	"lpcgo/protocol"
)

// FirmwareState is the session state reported by get_config.
type FirmwareState struct {
	configCRC  atomic.Uint32
	isShutdown atomic.Bool
}

var globalState FirmwareState

var (
	shutdownHooks      []func()
	globalResetHandler func()
	resetPending       atomic.Bool
)

// InitCoreCommands registers the session and diagnostics commands.
// identify_response and identify must get IDs 0 and 1: the host knows them
// before it has downloaded the dictionary.
func InitCoreCommands() {
	RegisterResponse("identify_response", "offset=%u data=%*s")       // ID 0
	RegisterCommand("identify", "offset=%u count=%c", handleIdentify) // ID 1

	RegisterCommand("get_config", "", handleGetConfig)
	RegisterCommand("config_reset", "", handleConfigReset)
	RegisterCommand("finalize_config", "crc=%u", handleFinalizeConfig)
	RegisterCommand("emergency_stop", "", handleEmergencyStop)
	RegisterCommand("reset", "", handleReset)
	RegisterCommand("debug_enable", "enable=%c", handleDebugEnable)
	RegisterCommand("get_events", "", handleGetEvents)

	RegisterResponse("config", "is_config=%c crc=%u is_shutdown=%c")
	RegisterResponse("shutdown", "reason=%*s")
	RegisterResponse("debug_message", "msg=%*s")
	RegisterResponse("event", "type=%c id=%c seq=%u v1=%u v2=%u")
}

// handleIdentify serves a chunk of the dictionary.
func handleIdentify(data *[]byte) error {
	var offset, count uint32
	if err := protocol.DecodeArgs(data, &offset, &count); err != nil {
		return err
	}
	chunk := GetGlobalDictionary().GetChunk(offset, uint8(count))
	SendResponse("identify_response", func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, offset)
		protocol.EncodeVLQBytes(output, chunk)
	})
	return nil
}

func handleGetConfig(data *[]byte) error {
	crc := globalState.configCRC.Load()
	SendResponse("config", func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, boolToUint(crc != 0))
		protocol.EncodeVLQUint(output, crc)
		protocol.EncodeVLQUint(output, boolToUint(globalState.isShutdown.Load()))
	})
	return nil
}

func handleConfigReset(data *[]byte) error {
	globalState.configCRC.Store(0)
	return nil
}

func handleFinalizeConfig(data *[]byte) error {
	crc, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return err
	}
	globalState.configCRC.Store(crc)
	return nil
}

func handleEmergencyStop(data *[]byte) error {
	TryShutdown("emergency_stop")
	return nil
}

// handleReset only flags the reset; the main loop performs it after the
// ACK has gone out.
func handleReset(data *[]byte) error {
	resetPending.Store(true)
	return nil
}

func handleDebugEnable(data *[]byte) error {
	on, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return err
	}
	SetDebugEnabled(on != 0)
	return nil
}

// handleGetEvents sends the event ring, oldest first.
func handleGetEvents(data *[]byte) error {
	for _, evt := range Events() {
		evt := evt
		SendResponse("event", func(output protocol.OutputBuffer) {
			protocol.EncodeVLQUint(output, uint32(evt.Type))
			protocol.EncodeVLQUint(output, uint32(evt.ID))
			protocol.EncodeVLQUint(output, evt.Seq)
			protocol.EncodeVLQUint(output, evt.Value1)
			protocol.EncodeVLQUint(output, evt.Value2)
		})
	}
	return nil
}

// RegisterShutdownHook adds fn to the actions run on shutdown, e.g.
// disarming pin interrupts and parking pins.
func RegisterShutdownHook(fn func()) {
	shutdownHooks = append(shutdownHooks, fn)
}

// TryShutdown enters the shutdown state, runs the shutdown hooks and tells
// the host why. Only the first call has any effect.
func TryShutdown(reason string) {
	if !globalState.isShutdown.CompareAndSwap(false, true) {
		return
	}
	for _, fn := range shutdownHooks {
		fn()
	}
	SendResponse("shutdown", func(output protocol.OutputBuffer) {
		protocol.EncodeVLQString(output, reason)
	})
}

// IsShutdown reports whether the firmware has shut down.
func IsShutdown() bool {
	return globalState.isShutdown.Load()
}

// ResetFirmwareState clears the session state when the host reconnects.
func ResetFirmwareState() {
	globalState.configCRC.Store(0)
	globalState.isShutdown.Store(false)
}

// SetResetHandler installs the platform reset (system reset request).
func SetResetHandler(handler func()) {
	globalResetHandler = handler
}

// CheckPendingReset performs a requested reset once. Call it after output
// has been flushed.
func CheckPendingReset() {
	if globalResetHandler != nil && resetPending.CompareAndSwap(true, false) {
		globalResetHandler()
	}
}

func boolToUint(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
