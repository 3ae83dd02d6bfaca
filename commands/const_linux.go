package commands

const (
	_etc = "/usr/local/etc/outreach"
	_var = "/usr/local/var/outreach"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"

	OPEN = "xdg-open"
)
