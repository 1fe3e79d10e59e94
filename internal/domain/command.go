package domain

// Command is a named device command understood by the firmware.
type Command string

// Commands used by this tool. Names follow the vendor's RPC method names.
const (
	CmdWakeUp     Command = "app_wakeup"
	CmdStart      Command = "app_start"
	CmdPause      Command = "app_pause"
	CmdCharge     Command = "app_charge"
	CmdGotoTarget Command = "app_goto_target"
	CmdFindMe     Command = "find_me"
)
