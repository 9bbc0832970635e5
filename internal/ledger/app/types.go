package app

// OkCode is the uniform reply code for every check_tx/deliver_tx outcome,
// including rejections: the consensus engine only inspects the code, and
// rejecting via a non-zero code for one replica but not another would be
// a divergence risk if implementations disagreed on which rejections
// warrant it.
const OkCode = 0

// RequestInitChain carries the genesis app_state fragment.
type RequestInitChain struct {
	AppStateBytes []byte
}

// ResponseInfo answers the info callback: the height and app-hash of the
// most recently committed block, so a restarting consensus engine knows
// where to resume from.
type ResponseInfo struct {
	LastBlockHeight  int64
	LastBlockAppHash []byte
}

// ResponseCheckTx and ResponseDeliverTx share the same shape: a reply
// code (always OkCode, per the design note above) and a human-readable
// log describing acceptance or the rejection reason.
type ResponseCheckTx struct {
	Code uint32
	Log  string
}

type ResponseDeliverTx struct {
	Code uint32
	Log  string
}

// ResponseCommit carries the app-hash computed after persisting the new
// state.
type ResponseCommit struct {
	Data []byte
}

// ResponseQuery answers the query callback. Only path "/state" is
// recognized; any other path returns an empty Value with Code OkCode and
// an informational Log.
type ResponseQuery struct {
	Code   uint32
	Log    string
	Value  []byte
	Height int64
}
