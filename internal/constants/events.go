package constants

// 客戶端動作名稱
const (
	ActionJoin                 = "join"
	ActionSendMessage          = "sendMessage"
	ActionFetchMessages        = "fetchMessages"
	ActionFetchFirstMessageID  = "fetchFirstMessageID"
	ActionCreateChannel        = "createChannel"
	ActionAddUsersToChannel    = "addUsersToChannel"
	ActionRenameChannel        = "renameChannel"
	ActionLeaveChannel         = "leaveChannel"
	ActionSendFriendRequest    = "sendFriendRequest"
	ActionResolveFriendRequest = "resolveFriendRequest"
	ActionDeleteFriend         = "deleteFriend"
	ActionUpdateBio            = "updateBio"
	ActionUpdateNickname       = "updateNickname"
	ActionFetchUser            = "fetchUser"
	ActionFetchFriends         = "fetchFriends"
)

// 伺服器推送事件名稱
const (
	EventNewMessage            = "newMessage"
	EventUpdateChannels        = "updateChannels"
	EventFriends               = "friends"
	EventFriendRequests        = "friendRequests"
	EventAcceptedFriendRequest = "acceptedFriendRequest"
	EventSelf                  = "self"
	EventChannelUnread         = "channelUnread"
	EventMessages              = "messages"
	EventFirstMessage          = "firstMessage"
	EventUserInfo              = "userInfo"
	EventAck                   = "ack"
)
