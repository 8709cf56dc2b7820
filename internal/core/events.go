package core

// Inbound event types, as sent by clients in the JSON envelope.
const (
	InRoomCreate      = "room:create"
	InRoomJoin        = "room:join"
	InRoomLeave       = "room:leave"
	InRoomMessage     = "room:message"
	InRoomDelete      = "room:delete"
	InRoomMute        = "room:mute"
	InRoomKick        = "room:kick"
	InRoomClose       = "room:close"
	InRandomStart     = "random:start"
	InRandomNext      = "random:next"
	InRandomStop      = "random:stop"
	InRandomMessage   = "random:message"
	InInterestsUpdate = "interests:update"
	InInterestsToggle = "interests:toggle"
	InInterestsWait   = "interests:wait"
)

// Outbound event types.
const (
	EvtInit          = "init"
	EvtAuthRequired  = "auth:required"
	EvtError         = "error"
	EvtRooms         = "rooms"
	EvtStatus        = "status"
	EvtRoomCreated   = "room:created"
	EvtRoomJoined    = "room:joined"
	EvtRoomMessage   = "room:message"
	EvtRoomSystem    = "room:system"
	EvtRoomDelete    = "room:delete"
	EvtRoomKicked    = "room:kicked"
	EvtRoomClosed    = "room:closed"
	EvtRandomMatched = "random:matched"
	EvtRandomMessage = "random:message"
	EvtRandomEnded   = "random:ended"
)
