package constants

// 用户组常量
const (
	GroupReaders = "readers"
	GroupAuthors = "authors"
	GroupEditors = "editors"
)

// 文章权限动作常量
const (
	PermViewPost    = "view"
	PermAddPost     = "add"
	PermChangePost  = "change"
	PermDeletePost  = "delete"
	PermPublishPost = "publish"
)

// 权限资源常量
const (
	ResourcePost = "post"
)

// 闪存消息级别常量
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// 队列常量
const (
	QueueDefault          = "default"
	TaskPasswordResetMail = "mail:password_reset"
	TaskContactMail       = "mail:contact_message"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "bn"
)

// 关于页默认文案（AboutUs 记录缺失或内容为空时返回）
const DefaultAboutContent = "Default content goes here."
