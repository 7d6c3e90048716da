package mcp

// Instructions is surfaced to MCP clients at initialize time so models
// know what the Oracle is for before calling any tool.
const Instructions = `DPYC Oracle — community concierge for the DPYC Honor Chain.

DPYC ("Don't Pester Your Customer") is a philosophy and protocol for API monetization via Bitcoin Lightning micropayments. Users pre-fund a satoshi balance and consume API calls without KYC, stablecoins, or mid-session payment popups. Identity is a Nostr keypair (npub), not an email or username. Tollbooth monetizes complete business information at the MCP tool layer — not raw REST data fragments — using pre-funded Lightning balances that eliminate per-request payment ceremonies.

The Honor Chain is a voluntary community of Operators and Authorities who agree to transparent, auditable economic rules. Operators run MCP services and collect Lightning fares via Tollbooths. Authorities certify Operators and collect a small tax on every purchase order. The First Curator (Prime Authority) sits at the root of the chain and mints the initial cert-sat supply. Membership tiers: Citizen → Operator → Authority → First Curator.

This Oracle is a free, unauthenticated concierge that answers questions about membership, governance, onboarding, and tax rates by reading the dpyc-community registry on GitHub. It does not require payment or credentials.

Related repos:
- dpyc-community: https://github.com/lonniev/dpyc-community (registry + governance)
- tollbooth-dpyc: https://github.com/lonniev/tollbooth-dpyc (Python SDK for Tollbooth monetization)
- tollbooth-authority: https://github.com/lonniev/tollbooth-authority (Authority MCP service)
`
