package protocol

// Message type codes used by the classroom application built on top of this
// transport. The core branches on only three of these: MsgRoomStatus (the
// broadcast sentinel, declared in header.go), MsgHeartbeat (which
// server.Dispatcher drops without calling the handler) and MsgError (the
// type of the dispatcher's error replies). The rest exist so tests and
// documentation have a single source of truth for the wire table.
// Implementing the behavior behind any of these codes is out of scope for
// this repository.
const (
	MsgRegisterReq uint16 = 0x0001
	MsgRegisterRes uint16 = 0x0002
	MsgLoginReq    uint16 = 0x0003
	MsgLoginRes    uint16 = 0x0004
	MsgLogoutReq   uint16 = 0x0005
	MsgLogoutRes   uint16 = 0x0006

	MsgTestConfig   uint16 = 0x0010
	MsgTestStartReq uint16 = 0x0011
	MsgTestStartRes uint16 = 0x0012
	MsgTestQuestions uint16 = 0x0013
	MsgTestSubmit   uint16 = 0x0014
	MsgTestResult   uint16 = 0x0015

	MsgTeacherDataReq uint16 = 0x0020
	MsgTeacherDataRes uint16 = 0x0021

	MsgRoomCreate uint16 = 0x0030
	MsgRoomCreateRes uint16 = 0x0031
	MsgRoomJoin   uint16 = 0x0032
	MsgRoomJoinRes uint16 = 0x0033
	MsgRoomStart  uint16 = 0x0034
	MsgRoomStartRes uint16 = 0x0035
	MsgRoomEnd    uint16 = 0x0036
	MsgRoomEndRes uint16 = 0x0037
	MsgRoomList   uint16 = 0x0038
	MsgRoomListRes uint16 = 0x0039
	// MsgRoomStatus == 0x003A, the broadcast sentinel — see header.go.

	MsgError     uint16 = 0x00FF
	MsgHeartbeat uint16 = 0x00FE
)

// Application-level error codes carried inside payloads. The core framing
// layer never inspects these; they live here purely as the documented
// vocabulary a handler built on this library is expected to use.
const (
	AppSuccess         = 1000
	AppBadRequest      = 2000
	AppInvalidJSON     = 2001
	AppUnauthorized    = 3000
	AppInvalidCreds    = 3001
	AppSessionExpired  = 3002
	AppForbidden       = 4000
	AppWrongRole       = 4001
	AppConflict        = 5000
	AppUsernameExists  = 5001
	AppInternal        = 6000
)
