package commands

const (
	_etc = "/usr/local/etc/com.github.twystd.outreach"
	_var = "/usr/local/var/com.github.twystd.outreach"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"

	OPEN = "open"
)
