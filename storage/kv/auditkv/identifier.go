package auditkv

const (
	// RecordIdentifier is the domain separation for audit records,
	// keyed by session id.
	RecordIdentifier = 'r'
	// SeqIdentifier is the domain separation for the sequence index,
	// which maps a record's position in the chain to its session id.
	SeqIdentifier = 's'
	// HeadIdentifier is the domain separation for the chain head.
	HeadIdentifier = 'h'
)
