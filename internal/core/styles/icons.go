package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconSearch   = ""     // nf-fa-search
	IconReplace  = ""     // nf-cod-replace
	IconRegex    = ""     // nf-cod-regex
	IconCase     = ""     // nf-cod-case_sensitive
	IconWrap     = "\U000F05B6" // nf-md-wrap
	IconLock     = ""     // nf-fa-lock
	IconModified = ""     // nf-fa-circle
)

// Notification icons
var (
	IconNotifyInfo    = "" // nf-fa-info_circle
	IconNotifyWarning = "" // nf-fa-warning
	IconNotifyError   = "" // nf-fa-times_circle
)
