package core

import (
	"sync"

	"lpcgo/protocol"
)

// CommandHandler runs a command, decoding its own arguments from data.
type CommandHandler func(data *[]byte) error

// Command is one entry of the message dictionary. Entries without a
// handler are responses (firmware to host).
type Command struct {
	ID      uint16
	Name    string
	Format  string // parameter list, e.g. "port=%c bit=%c"
	Handler CommandHandler
}

// CommandRegistry assigns message IDs in registration order.
type CommandRegistry struct {
	mu       sync.RWMutex
	commands []*Command
	nameToID map[string]uint16
}

var globalRegistry = NewCommandRegistry()

func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{nameToID: make(map[string]uint16)}
}

// RegisterCommand adds a command to the global registry.
func RegisterCommand(name, format string, handler CommandHandler) uint16 {
	return globalRegistry.Register(name, format, handler)
}

// RegisterResponse adds a response to the global registry.
func RegisterResponse(name, format string) uint16 {
	return globalRegistry.Register(name, format, nil)
}

// Register adds a message and returns its ID. Registering a name again
// returns the existing ID.
func (r *CommandRegistry) Register(name, format string, handler CommandHandler) uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.nameToID[name]; ok {
		return id
	}
	id := uint16(len(r.commands))
	r.commands = append(r.commands, &Command{ID: id, Name: name, Format: format, Handler: handler})
	r.nameToID[name] = id
	return id
}

func (r *CommandRegistry) GetCommand(id uint16) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(id) >= len(r.commands) {
		return nil, false
	}
	return r.commands[id], true
}

func (r *CommandRegistry) GetCommandByName(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.nameToID[name]
	if !ok {
		return nil, false
	}
	return r.commands[id], true
}

func (r *CommandRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// Dispatch runs command id. Unknown IDs and responses sent to the firmware
// are rejected with ErrUnknownCommand.
func (r *CommandRegistry) Dispatch(id uint16, data *[]byte) error {
	cmd, ok := r.GetCommand(id)
	if !ok || cmd.Handler == nil {
		return ErrUnknownCommand
	}
	return cmd.Handler(data)
}

// Each calls fn for every message in ID order.
func (r *CommandRegistry) Each(fn func(*Command)) {
	r.mu.RLock()
	cmds := r.commands
	r.mu.RUnlock()
	for _, c := range cmds {
		fn(c)
	}
}

// Signature is the dictionary key of a message: its name followed by its
// parameter list.
func (c *Command) Signature() string {
	if c.Format == "" {
		return c.Name
	}
	return c.Name + " " + c.Format
}

// DispatchCommand runs a command from the global registry. It has the
// shape of protocol.CommandHandler.
func DispatchCommand(cmdID uint16, data *[]byte) error {
	return globalRegistry.Dispatch(cmdID, data)
}

func GetGlobalRegistry() *CommandRegistry {
	return globalRegistry
}

// Responder queues outgoing frames; *protocol.Transport implements it.
type Responder interface {
	SendCommand(cmdID uint16, args func(output protocol.OutputBuffer))
}

var globalTransport Responder

// SetGlobalTransport installs the responder used by SendResponse.
func SetGlobalTransport(r Responder) {
	globalTransport = r
}

// SendResponse queues response name. Without a transport the response is
// dropped; an unregistered name is a programming error and panics.
func SendResponse(name string, args func(output protocol.OutputBuffer)) {
	if globalTransport == nil {
		return
	}
	cmd, ok := globalRegistry.GetCommandByName(name)
	if !ok {
		panic("core: response not registered: " + name)
	}
	globalTransport.SendCommand(cmd.ID, args)
}
