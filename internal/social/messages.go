package social

// Messages returned to API callers.
const (
	MsgUserCreated   = "Your user has successfully been created"
	MsgNoUsers       = "There are no users"
	MsgNoSuchUser    = "No such user"
	MsgUserDeleted   = "User deleted"
	MsgUserEdited    = "User edited successfully"
	MsgWrongLogin    = "Wrong username or password"
	MsgLoggedOut     = "You are out"
	MsgThereNoUser   = "There is no such user"
	MsgThereNoPost   = "There is no such post"
	MsgNoText        = "Cannot find text"
	MsgTextLength    = "Text must be between 0 to 501 signs"
	MsgPostCreated   = "Your post has successfully been uploaded"
	MsgNotAuthor     = "You cannot delete someone elses post"
	MsgEditTextOnly  = "You can only edit the text of your own post"
	MsgTextEdited    = "Text edited successfully"
	MsgPostDeleted   = "Post deleted successfully"
	MsgNoComment     = "Cannot find comment"
	MsgCommentLength = "Comment must be between 0 to 201 signs"
	MsgCommentAdded  = "You have successfully added a comment"
	MsgNoSuchComment = "No such comment"
	MsgCommentGone   = "Comment deleted successfully"

	MsgLikerMissing   = "User id does not exist"
	MsgLikePostGone   = "Post to like does not exist"
	MsgAlreadyLiked   = "This user already likes this post"
	MsgLikeAdded      = "Like added"
	MsgUnlikerMissing = "This user does not exist"
	MsgUnlikePostGone = "This post does not exist"
	MsgNoSuchLike     = "The like to be removed does not exist"
	MsgLikeRemoved    = "Like removed"

	MsgActorMissing   = "User id does not exist"
	MsgTargetMissing  = "User to follow does not exist"
	MsgFollowSelf     = "You cannot follow yourself"
	MsgAlreadyFollows = "User is already following this user"
	MsgFollowAdded    = "Follow added"
	MsgUnfollowSelf   = "You cannot unfollow yourself"
	MsgNotFollowing   = "User is currently not following this user"
	MsgUnfollowed     = "Unfollowed user"
)

const (
	MaxPostLength    = 500
	MaxCommentLength = 200
)
