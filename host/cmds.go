// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import "github.com/beevik/cmd"

// A hostCommand is stored as the data of each command in the command tree.
type hostCommand struct {
	name        string
	brief       string
	description string
	usage       string
	handler     func(*Host, cmd.Selection) error
}

// A commandGroup holds the commands of one command subtree. The root group
// has no name.
type commandGroup struct {
	name     string
	brief    string
	commands []*hostCommand
}

var (
	cmds          *cmd.Tree
	commandGroups []commandGroup
)

func init() {
	commandGroups = []commandGroup{
		{
			commands: []*hostCommand{
				{
					name:        "help",
					description: "Display help for a command.",
					usage:       "help [<command>]",
					handler:     (*Host).cmdHelp,
				},
				{
					name:  "call",
					brief: "Call a subroutine",
					description: "Call the subroutine at the specified address" +
						" and run the CPU until the subroutine returns, a breakpoint" +
						" is hit, or the user types Ctrl-C.",
					usage:   "call <address>",
					handler: (*Host).cmdCall,
				},
				{
					name:  "disassemble",
					brief: "Disassemble code",
					description: "Disassemble machine code starting at the requested" +
						" address. The number of instructions to disassemble may be" +
						" specified as an option. If no address is specified, the" +
						" disassembly continues from where the last one left off.",
					usage:   "disassemble [<address>] [<count>]",
					handler: (*Host).cmdDisassemble,
				},
				{
					name:        "irq",
					brief:       "Raise an interrupt request",
					description: "Raise a maskable interrupt request on the CPU.",
					usage:       "irq",
					handler:     (*Host).cmdIRQ,
				},
				{
					name:  "load",
					brief: "Load a binary file",
					description: "Load the contents of a raw binary file into the" +
						" emulated system's memory at the specified address, and set" +
						" the program counter to that address.",
					usage:   "load <filename> <address>",
					handler: (*Host).cmdLoad,
				},
				{
					name:        "nmi",
					brief:       "Raise a non-maskable interrupt",
					description: "Raise a non-maskable interrupt on the CPU.",
					usage:       "nmi",
					handler:     (*Host).cmdNMI,
				},
				{
					name:        "quit",
					brief:       "Quit the program",
					description: "Quit the program.",
					usage:       "quit",
					handler:     (*Host).cmdQuit,
				},
				{
					name:  "register",
					brief: "View or change register values",
					description: "When used without arguments, this command displays" +
						" the current contents of the CPU registers. When used with" +
						" arguments, this command changes the value of a register or" +
						" status flag.",
					usage:   "register [<name> <value>]",
					handler: (*Host).cmdRegister,
				},
				{
					name:  "reset",
					brief: "Reset the CPU",
					description: "Reset the CPU registers and load the program" +
						" counter from the reset vector.",
					usage:   "reset",
					handler: (*Host).cmdReset,
				},
				{
					name:  "run",
					brief: "Run the CPU",
					description: "Run the CPU until a breakpoint is hit, the" +
						" program halts, or the user types Ctrl-C.",
					usage:   "run [<address>]",
					handler: (*Host).cmdRun,
				},
				{
					name:  "script",
					brief: "Run a Lua script",
					description: "Run a Lua script that drives the emulated system." +
						" Scripts may call peek, poke, reg, setreg, step, run, call" +
						" and cmd.",
					usage:   "script <filename>",
					handler: (*Host).cmdScript,
				},
				{
					name:  "set",
					brief: "Set a configuration variable",
					description: "Set the value of a configuration variable. Type the set" +
						" command without a variable name or value to display the current" +
						" values of all configuration variables.",
					usage:   "set [<var> <value>]",
					handler: (*Host).cmdSet,
				},
			},
		},
		{
			name:  "breakpoint",
			brief: "Breakpoint commands",
			commands: []*hostCommand{
				{
					name:        "list",
					brief:       "List breakpoints",
					description: "List all current breakpoints.",
					usage:       "breakpoint list",
					handler:     (*Host).cmdBreakpointList,
				},
				{
					name:  "add",
					brief: "Add a breakpoint",
					description: "Add a breakpoint at the specified address." +
						" The breakpoints starts enabled.",
					usage:   "breakpoint add <address>",
					handler: (*Host).cmdBreakpointAdd,
				},
				{
					name:        "remove",
					brief:       "Remove a breakpoint",
					description: "Remove a breakpoint at the specified address.",
					usage:       "breakpoint remove <address>",
					handler:     (*Host).cmdBreakpointRemove,
				},
				{
					name:        "enable",
					brief:       "Enable a breakpoint",
					description: "Enable a previously added breakpoint.",
					usage:       "breakpoint enable <address>",
					handler:     (*Host).cmdBreakpointEnable,
				},
				{
					name:  "disable",
					brief: "Disable a breakpoint",
					description: "Disable a previously added breakpoint. This" +
						" prevents the breakpoint from being hit when running the" +
						" CPU",
					usage:   "breakpoint disable <address>",
					handler: (*Host).cmdBreakpointDisable,
				},
			},
		},
		{
			name:  "databreakpoint",
			brief: "Data breakpoint commands",
			commands: []*hostCommand{
				{
					name:        "list",
					brief:       "List data breakpoints",
					description: "List all current data breakpoints.",
					usage:       "databreakpoint list",
					handler:     (*Host).cmdDataBreakpointList,
				},
				{
					name:  "add",
					brief: "Add a data breakpoint",
					description: "Add a new data breakpoint at the specified" +
						" memory address. When the CPU stores data at this address, the" +
						" breakpoint will stop the CPU. Optionally, a byte" +
						" value may be specified, and the CPU will stop only" +
						" when this value is stored. The data breakpoint starts" +
						" enabled.",
					usage:   "databreakpoint add <address> [<value>]",
					handler: (*Host).cmdDataBreakpointAdd,
				},
				{
					name:  "remove",
					brief: "Remove a data breakpoint",
					description: "Remove a previously added data breakpoint at" +
						" the specified memory address.",
					usage:   "databreakpoint remove <address>",
					handler: (*Host).cmdDataBreakpointRemove,
				},
				{
					name:        "enable",
					brief:       "Enable a data breakpoint",
					description: "Enable a previously added data breakpoint.",
					usage:       "databreakpoint enable <address>",
					handler:     (*Host).cmdDataBreakpointEnable,
				},
				{
					name:        "disable",
					brief:       "Disable a data breakpoint",
					description: "Disable a previously added data breakpoint.",
					usage:       "databreakpoint disable <address>",
					handler:     (*Host).cmdDataBreakpointDisable,
				},
			},
		},
		{
			name:  "memory",
			brief: "Memory commands",
			commands: []*hostCommand{
				{
					name:  "dump",
					brief: "Dump memory at address",
					description: "Dump the contents of memory starting from the" +
						" specified address. The number of bytes to dump may be" +
						" specified as an option.",
					usage:   "memory dump [<address>] [<bytes>]",
					handler: (*Host).cmdMemoryDump,
				},
				{
					name:  "set",
					brief: "Set memory at address",
					description: "Set the contents of memory starting from the" +
						" specified address. The values to assign should be a" +
						" series of space-separated byte values.",
					usage:   "memory set <address> <byte> [<byte> ...]",
					handler: (*Host).cmdMemorySet,
				},
			},
		},
		{
			name:  "step",
			brief: "Step the debugger",
			commands: []*hostCommand{
				{
					name:  "in",
					brief: "Step into next instruction",
					description: "Step the CPU by a single instruction. If the" +
						" instruction is a subroutine call, step into the subroutine." +
						" The number of steps may be specified as an option.",
					usage:   "step in [<count>]",
					handler: (*Host).cmdStepIn,
				},
				{
					name:  "over",
					brief: "Step over next instruction",
					description: "Step the CPU by a single instruction. If the" +
						" instruction is a subroutine call, step over the subroutine." +
						" The number of steps may be specified as an option.",
					usage:   "step over [<count>]",
					handler: (*Host).cmdStepOver,
				},
				{
					name:  "out",
					brief: "Step out of the current subroutine",
					description: "Step the CPU until it executes an RTS or RTI" +
						" instruction. This has the effect of stepping until the" +
						" currently running subroutine has returned.",
					usage:   "step out",
					handler: (*Host).cmdStepOut,
				},
			},
		},
	}

	root := cmd.NewTree(cmd.TreeDescriptor{Name: "hev6502"})
	for _, g := range commandGroups {
		tree := root
		if g.name != "" {
			tree = root.AddSubtree(cmd.TreeDescriptor{Name: g.name, Brief: g.brief})
		}
		for _, c := range g.commands {
			tree.AddCommand(cmd.CommandDescriptor{
				Name:        c.name,
				Brief:       c.brief,
				Description: c.description,
				Usage:       c.usage,
				Data:        c,
			})
		}
	}

	// Add command shortcuts.
	root.AddShortcut("b", "breakpoint")
	root.AddShortcut("bp", "breakpoint")
	root.AddShortcut("ba", "breakpoint add")
	root.AddShortcut("br", "breakpoint remove")
	root.AddShortcut("bl", "breakpoint list")
	root.AddShortcut("be", "breakpoint enable")
	root.AddShortcut("bd", "breakpoint disable")
	root.AddShortcut("c", "call")
	root.AddShortcut("d", "disassemble")
	root.AddShortcut("db", "databreakpoint")
	root.AddShortcut("dbp", "databreakpoint")
	root.AddShortcut("dbl", "databreakpoint list")
	root.AddShortcut("dba", "databreakpoint add")
	root.AddShortcut("dbr", "databreakpoint remove")
	root.AddShortcut("dbe", "databreakpoint enable")
	root.AddShortcut("dbd", "databreakpoint disable")
	root.AddShortcut("m", "memory dump")
	root.AddShortcut("ms", "memory set")
	root.AddShortcut("r", "register")
	root.AddShortcut("s", "step over")
	root.AddShortcut("si", "step in")
	root.AddShortcut("so", "step out")
	root.AddShortcut("?", "help")
	root.AddShortcut(".", "register")

	cmds = root
}

// Find the command group with the requested name, or nil if there is none.
func findGroup(name string) *commandGroup {
	for i := range commandGroups {
		if commandGroups[i].name == name {
			return &commandGroups[i]
		}
	}
	return nil
}
