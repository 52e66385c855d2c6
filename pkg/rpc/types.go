package rpc

// Transaction send statuses returned by sendTransaction
const (
	SendStatusPending   = "PENDING"
	SendStatusDuplicate = "DUPLICATE"
	SendStatusRetry     = "TRY_AGAIN_LATER"
	SendStatusError     = "ERROR"
)

// Transaction lookup statuses returned by getTransaction
const (
	TxStatusSuccess  = "SUCCESS"
	TxStatusNotFound = "NOT_FOUND"
	TxStatusFailed   = "FAILED"
)

// SimulateResult is one per-operation result of a simulation
type SimulateResult struct {
	Auth []string `json:"auth"`
	XDR  string   `json:"xdr"`
}

// SimulateTransactionResponse is the simulateTransaction result payload
type SimulateTransactionResponse struct {
	TransactionData string           `json:"transactionData"`
	MinResourceFee  string           `json:"minResourceFee"`
	Events          []string         `json:"events"`
	Results         []SimulateResult `json:"results"`
	LatestLedger    uint32           `json:"latestLedger"`
	Error           string           `json:"error"`
}

// SendTransactionResponse is the sendTransaction result payload
type SendTransactionResponse struct {
	Status                string `json:"status"`
	Hash                  string `json:"hash"`
	LatestLedger          uint32 `json:"latestLedger"`
	LatestLedgerCloseTime string `json:"latestLedgerCloseTime"`
	ErrorResultXDR        string `json:"errorResultXdr"`
}

// GetTransactionResponse is the getTransaction result payload
type GetTransactionResponse struct {
	Status        string `json:"status"`
	LatestLedger  uint32 `json:"latestLedger"`
	Ledger        uint32 `json:"ledger"`
	CreatedAt     string `json:"createdAt"`
	EnvelopeXDR   string `json:"envelopeXdr"`
	ResultXDR     string `json:"resultXdr"`
	ResultMetaXDR string `json:"resultMetaXdr"`
}

// LedgerEntry is one entry of a getLedgerEntries response
type LedgerEntry struct {
	Key                   string `json:"key"`
	XDR                   string `json:"xdr"`
	LastModifiedLedgerSeq uint32 `json:"lastModifiedLedgerSeq"`
	LiveUntilLedgerSeq    uint32 `json:"liveUntilLedgerSeq"`
}

// GetLedgerEntriesResponse is the getLedgerEntries result payload
type GetLedgerEntriesResponse struct {
	Entries      []LedgerEntry `json:"entries"`
	LatestLedger uint32        `json:"latestLedger"`
}

// GetLatestLedgerResponse is the getLatestLedger result payload
type GetLatestLedgerResponse struct {
	ID              string `json:"id"`
	ProtocolVersion uint32 `json:"protocolVersion"`
	Sequence        uint32 `json:"sequence"`
}
