package service

import (
	"sort"

	"golang-finance-rag/pkg/common"
)

// stockGroups maps a named basket of stocks to its constituent tickers. The
// key is matched as a lower-case substring of the query.
var stockGroups = map[string][]string{
	"faang":                  {"META", "AAPL", "AMZN", "NFLX", "GOOGL"},
	"fang":                   {"META", "AAPL", "NFLX", "GOOGL"},
	"mag 7":                  {"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "TSLA", "META"},
	"magnificent 7":          {"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "TSLA", "META"},
	"big tech":               {"AAPL", "MSFT", "GOOGL", "AMZN", "META", "NVDA"},
	"mega cap tech":          {"AAPL", "MSFT", "GOOGL", "AMZN", "META", "NVDA"},
	"sp500":                  {"SPY"},
	"s&p 500":                {"SPY"},
	"spy":                    {"SPY"},
	"qqq":                    {"QQQ"},
	"semiconductor stocks":   {"NVDA", "AMD", "INTC", "QCOM", "AVGO", "MU"},
	"chip stocks":            {"NVDA", "AMD", "INTC", "QCOM", "AVGO", "MU"},
	"bank stocks":            {"JPM", "BAC", "WFC", "C", "GS", "MS"},
	"oil stocks":             {"XOM", "CVX", "COP", "EOG", "SLB"},
	"airline stocks":         {"DAL", "UAL", "AAL", "LUV"},
	"ev stocks":              {"TSLA", "F", "GM", "RIVN", "LCID"},
	"electric vehicle stocks": {"TSLA", "F", "GM", "RIVN", "LCID"},
	"pharma stocks":          {"JNJ", "PFE", "MRK", "ABBV", "LLY", "BMY"},
	"biotech stocks":         {"GILD", "AMGN", "BIIB", "REGN", "VRTX"},
	"reit stocks":            {"AMT", "PLD", "CCI", "EQIX", "SPG", "O"},
	"meme stocks":            {"GME", "AMC", "BB", "NOK"},
	"chinese stocks":         {"BABA", "JD", "PDD", "BIDU", "NIO"},
	"social media stocks":    {"META", "SNAP", "PINS", "TWTR"},
	"streaming stocks":       {"NFLX", "DIS", "ROKU", "PARA"},
}

// groupToSector maps a stock group to the sector it implies.
var groupToSector = map[string]string{
	"faang":                  common.SectorTechnology,
	"fang":                   common.SectorTechnology,
	"mag 7":                  common.SectorTechnology,
	"magnificent 7":          common.SectorTechnology,
	"big tech":               common.SectorTechnology,
	"mega cap tech":          common.SectorTechnology,
	"semiconductor stocks":   common.SectorTechnology,
	"chip stocks":            common.SectorTechnology,
	"bank stocks":            common.SectorFinancial,
	"oil stocks":             common.SectorEnergy,
	"airline stocks":         common.SectorIndustrials,
	"ev stocks":              common.SectorConsumerDisc,
	"electric vehicle stocks": common.SectorConsumerDisc,
	"pharma stocks":          common.SectorHealthcare,
	"biotech stocks":         common.SectorHealthcare,
	"reit stocks":            common.SectorRealEstate,
	"chinese stocks":         common.SectorInternational,
	"social media stocks":    common.SectorCommunication,
	"streaming stocks":       common.SectorCommunication,
}

// companyMappings maps a lower-case company alias to its ticker. Aliases are
// matched longest-first (see companyAliases) so "jpmorgan chase" wins over
// "chase".
var companyMappings = map[string]string{
	// Technology
	"apple": "AAPL", "apple inc": "AAPL",
	"microsoft": "MSFT", "microsoft corp": "MSFT", "microsoft corporation": "MSFT",
	"google": "GOOGL", "alphabet": "GOOGL", "alphabet inc": "GOOGL",
	"amazon": "AMZN", "amazon.com": "AMZN",
	"meta": "META", "facebook": "META", "meta platforms": "META",
	"nvidia": "NVDA", "nvidia corp": "NVDA", "nvidia corporation": "NVDA",
	"tesla": "TSLA", "tesla inc": "TSLA", "tesla motors": "TSLA",
	"netflix": "NFLX",
	"adobe":   "ADBE", "adobe inc": "ADBE",
	"salesforce": "CRM", "salesforce.com": "CRM",
	"oracle": "ORCL", "oracle corp": "ORCL",
	"intel": "INTC", "intel corp": "INTC",
	"cisco": "CSCO", "cisco systems": "CSCO",
	"ibm": "IBM", "international business machines": "IBM",
	"advanced micro devices": "AMD", "amd": "AMD",

	// Healthcare
	"johnson & johnson": "JNJ", "johnson and johnson": "JNJ", "j&j": "JNJ",
	"pfizer": "PFE", "pfizer inc": "PFE",
	"unitedhealth": "UNH", "united health": "UNH", "unitedhealth group": "UNH",
	"merck": "MRK", "merck & co": "MRK",
	"abbvie": "ABBV", "abbvie inc": "ABBV",
	"eli lilly": "LLY", "lilly": "LLY",
	"bristol myers squibb": "BMY", "bristol myers": "BMY",
	"moderna": "MRNA", "moderna inc": "MRNA",
	"gilead": "GILD", "gilead sciences": "GILD",
	"amgen": "AMGN", "amgen inc": "AMGN",

	// Financial
	"jpmorgan": "JPM", "jp morgan": "JPM", "jpmorgan chase": "JPM", "chase": "JPM",
	"goldman sachs": "GS", "goldman": "GS",
	"morgan stanley": "MS",
	"bank of america": "BAC", "bofa": "BAC",
	"wells fargo": "WFC", "wells": "WFC",
	"citigroup": "C", "citi": "C", "citibank": "C",
	"american express": "AXP", "amex": "AXP",
	"visa": "V", "visa inc": "V",
	"mastercard": "MA", "mastercard inc": "MA",
	"paypal": "PYPL", "paypal holdings": "PYPL",
	"berkshire hathaway": "BRK.B", "berkshire": "BRK.B",

	// Energy
	"exxon": "XOM", "exxon mobil": "XOM", "exxonmobil": "XOM",
	"chevron": "CVX", "chevron corp": "CVX",
	"conocophillips":     "COP",
	"marathon petroleum": "MPC",
	"valero":             "VLO", "valero energy": "VLO",
	"phillips 66": "PSX",

	// Consumer Discretionary
	"walmart": "WMT", "walmart inc": "WMT",
	"home depot": "HD", "the home depot": "HD",
	"mcdonalds": "MCD", "mcdonald's": "MCD",
	"nike": "NKE", "nike inc": "NKE",
	"starbucks": "SBUX", "starbucks corp": "SBUX",
	"disney": "DIS", "walt disney": "DIS",
	"ford": "F", "ford motor": "F",
	"general motors": "GM", "gm": "GM",
	"target": "TGT", "target corp": "TGT",
	"lowes": "LOW", "lowe's": "LOW",

	// Consumer Staples
	"coca cola": "KO", "coca-cola": "KO", "coke": "KO",
	"pepsi": "PEP", "pepsico": "PEP",
	"procter & gamble": "PG", "procter and gamble": "PG", "p&g": "PG",
	"costco": "COST", "costco wholesale": "COST",
	"general mills": "GIS",
	"kellogg":       "K", "kellogg company": "K",

	// Industrials
	"boeing": "BA", "boeing company": "BA",
	"caterpillar": "CAT", "caterpillar inc": "CAT",
	"general electric": "GE", "ge": "GE",
	"lockheed martin": "LMT",
	"raytheon":        "RTX", "raytheon technologies": "RTX",
	"fedex": "FDX", "federal express": "FDX",
	"ups": "UPS", "united parcel service": "UPS",
	"union pacific": "UNP",

	// Communication Services
	"verizon": "VZ", "verizon communications": "VZ",
	"at&t": "T", "att": "T",
	"t-mobile": "TMUS", "tmobile": "TMUS",
	"comcast": "CMCSA", "comcast corp": "CMCSA",
	"charter": "CHTR", "charter communications": "CHTR",

	// Utilities
	"nextera energy": "NEE", "nextera": "NEE",
	"duke energy":      "DUK",
	"southern company": "SO",
	"dominion energy":  "D",

	// Real Estate
	"american tower": "AMT",
	"prologis":       "PLD",
	"crown castle":   "CCI",
	"realty income":  "O",
	"simon property": "SPG",

	// International
	"taiwan semiconductor": "TSM", "tsmc": "TSM",
	"asml":    "ASML",
	"samsung": "005930.KS",
	"alibaba": "BABA",
	"tencent": "TCEHY",
}

// companyAliases is every alias in companyMappings sorted longest-first so
// the extractor consumes the most specific alias before its substrings.
var companyAliases = func() []string {
	aliases := make([]string, 0, len(companyMappings))
	for alias := range companyMappings {
		aliases = append(aliases, alias)
	}
	sort.Slice(aliases, func(i, j int) bool {
		if len(aliases[i]) != len(aliases[j]) {
			return len(aliases[i]) > len(aliases[j])
		}
		return aliases[i] < aliases[j]
	})
	return aliases
}()

// dictionaryTickers is every ticker reachable from the curated tables. These
// are trusted verbatim even when they do not look like US ticker tokens
// (005930.KS).
var dictionaryTickers = func() map[string]bool {
	set := make(map[string]bool, len(companyMappings))
	for _, ticker := range companyMappings {
		set[ticker] = true
	}
	for _, tickers := range stockGroups {
		for _, ticker := range tickers {
			set[ticker] = true
		}
	}
	return set
}()

// sectorKeywords maps a sector to the lower-case terms that imply it.
var sectorKeywords = map[string][]string{
	common.SectorTechnology: {
		"tech", "software", "hardware", "semiconductor", "cloud", "saas", "cybersecurity",
		"apple", "microsoft", "google", "alphabet", "amazon", "meta", "facebook", "nvidia",
		"intel", "amd", "oracle", "salesforce", "adobe", "cisco", "ibm", "dell", "hp",
		"artificial intelligence", "machine learning", "data analytics", "automation",
		"robotics", "virtual reality", "augmented reality", "blockchain", "cryptocurrency",
	},
	common.SectorHealthcare: {
		"pharmaceutical", "biotech", "medical", "healthcare", "drug", "medicine", "clinical",
		"johnson & johnson", "pfizer", "merck", "abbvie", "bristol myers", "eli lilly",
		"moderna", "gilead", "amgen", "biogen", "regeneron", "vertex", "illumina",
		"medical device", "diagnostics", "vaccine", "therapy", "treatment", "fda approval",
		"hospital", "health plan", "telemedicine", "digital health",
	},
	common.SectorFinancial: {
		"bank", "financial", "insurance", "credit", "lending", "mortgage", "investment",
		"jpmorgan", "jp morgan", "goldman sachs", "morgan stanley", "bank of america",
		"wells fargo", "citigroup", "american express", "visa", "mastercard", "paypal",
		"fintech", "payment", "trading", "brokerage", "asset management",
		"private equity", "hedge fund", "cryptocurrency exchange",
	},
	common.SectorEnergy: {
		"oil", "gas", "energy", "petroleum", "natural gas", "crude oil", "refining",
		"exxon", "chevron", "conocophillips", "shell", "marathon",
		"renewable energy", "solar", "wind", "nuclear", "hydroelectric", "geothermal",
		"clean energy", "green energy", "carbon neutral", "emissions",
		"power generation", "electricity",
	},
	common.SectorConsumerDisc: {
		"retail", "consumer", "automotive", "vehicle", "restaurant", "hotel",
		"tesla", "ford", "general motors", "toyota", "honda",
		"nike", "adidas", "walmart", "target", "costco", "home depot", "lowes",
		"electric vehicle", "luxury", "fashion", "entertainment", "gaming",
		"e-commerce", "marketplace",
	},
	common.SectorConsumerStap: {
		"food", "beverage", "grocery", "household products", "personal care", "tobacco",
		"coca cola", "pepsi", "nestle", "unilever", "procter gamble", "colgate",
		"kroger", "general mills", "kellogg", "kraft heinz",
		"consumer goods", "fmcg", "packaged goods", "supermarket",
	},
	common.SectorIndustrials: {
		"aerospace", "defense", "machinery", "transportation", "logistics", "shipping",
		"boeing", "lockheed martin", "raytheon", "general electric", "caterpillar",
		"deere", "fedex", "union pacific",
		"manufacturing", "construction", "railway", "airline",
		"industrial equipment", "heavy machinery", "supply chain", "warehousing",
	},
	common.SectorMaterials: {
		"mining", "chemicals", "steel", "aluminum", "copper", "gold", "silver",
		"construction materials", "cement", "packaging",
		"dupont", "basf", "linde", "sherwin williams",
		"commodities", "raw materials", "metals", "forestry", "agriculture",
	},
	common.SectorCommunication: {
		"telecom", "telecommunications", "wireless", "broadband",
		"verizon", "t-mobile", "comcast", "charter",
		"social media", "streaming", "advertising",
		"netflix", "disney", "paramount",
	},
	common.SectorUtilities: {
		"electric utility", "water utility", "gas utility", "utility company",
		"solar power", "wind power", "nuclear power",
		"nextera", "duke energy", "southern company", "dominion",
		"grid", "transmission", "regulated utility",
	},
	common.SectorRealEstate: {
		"reit", "real estate", "property", "commercial real estate", "residential",
		"property management", "mortgage reit",
		"simon property", "realty income", "equity residential", "boston properties",
		"housing", "apartment", "retail property", "data center",
	},
}

// validTickers is the curated allow-list for the ticker token scanner.
var validTickers = map[string]bool{}

// falsePositives are uppercase tokens that look like tickers but never are.
var falsePositives = map[string]bool{}

func init() {
	for _, t := range []string{
		// Technology
		"AAPL", "MSFT", "GOOGL", "GOOG", "AMZN", "TSLA", "META", "NVDA", "NFLX", "ADBE",
		"CRM", "ORCL", "INTC", "CSCO", "IBM", "AMD", "QCOM", "PYPL", "AVGO", "TXN",
		"INTU", "MU", "LRCX", "KLAC", "MRVL", "ADI", "AMAT", "SNPS", "CDNS", "FTNT",
		// Healthcare
		"JNJ", "PFE", "UNH", "MRK", "ABBV", "LLY", "BMY", "MRNA", "GILD", "AMGN",
		"BIIB", "REGN", "VRTX", "ISRG", "DHR", "TMO", "ABT", "SYK", "BSX", "MDT",
		// Financial
		"JPM", "BAC", "WFC", "C", "GS", "MS", "AXP", "V", "MA", "BRK.A", "BRK.B",
		"BLK", "SPGI", "AIG", "TFC", "USB", "PNC", "COF", "SCHW", "CME", "ICE",
		// Energy
		"XOM", "CVX", "COP", "EOG", "SLB", "MPC", "VLO", "PSX", "OXY", "BKR",
		"HAL", "DVN", "FANG", "MRO", "APA", "CVE", "CNQ", "SU", "IMO", "TRP",
		// Consumer Discretionary
		"WMT", "HD", "MCD", "NKE", "SBUX", "DIS", "F", "GM", "TGT", "LOW",
		"TJX", "ORLY", "AZO", "YUM", "CMG", "MAR", "HLT", "ABNB", "BKNG", "EXPE",
		// Consumer Staples
		"KO", "PEP", "PG", "COST", "GIS", "K", "HSY", "MDLZ", "KHC",
		"CL", "CLX", "CHD", "SJM", "CPB", "CAG", "TSN", "HRL", "MKC", "LW",
		// Industrials
		"BA", "CAT", "GE", "LMT", "RTX", "FDX", "UPS", "UNP", "CSX", "NSC",
		"MMM", "HON", "ETN", "EMR", "ITW", "PH", "CMI", "DE", "IR", "ROK",
		// Communication Services
		"VZ", "T", "TMUS", "CMCSA", "CHTR", "DISH", "LUMN", "SIRI", "TWTR", "SNAP",
		// Utilities
		"NEE", "DUK", "SO", "D", "AEP", "EXC", "XEL", "SRE", "PCG", "ED",
		// Real Estate
		"AMT", "PLD", "CCI", "EQIX", "DLR", "SBAC", "O", "SPG", "AVB", "EQR",
		// Materials
		"LIN", "APD", "ECL", "SHW", "DD", "DOW", "NEM", "FCX", "NUE", "VMC",
		// ETFs
		"SPY", "QQQ", "IWM", "VTI", "VOO", "VEA", "VWO", "AGG", "BND", "GLD",
	} {
		validTickers[t] = true
	}

	for _, t := range []string{
		"AI", "IT", "US", "EU", "CEO", "CFO", "IPO", "ETF", "SEC", "FDA", "API",
		"THE", "AND", "FOR", "ARE", "BUT", "NOT", "YOU", "ALL", "CAN", "NEW",
		"ONE", "TWO", "GET", "SEE", "NOW", "WAY", "WHO", "BOY", "DID", "ITS",
		"HER", "OLD", "HAS", "HIM", "HIS", "SHE", "HOW", "OUR",
	} {
		falsePositives[t] = true
	}
}

// sectorTickers lists the representative tickers used when a broad sector
// query is expanded into concrete symbols. Order matters: the orchestrator
// caps the expansion at a fixed count and keeps the leading entries.
var sectorTickers = map[string][]string{
	common.SectorBanking:       {"JPM", "BAC", "WFC", "C", "GS", "MS"},
	common.SectorFinancial:     {"JPM", "BAC", "V", "MA", "GS", "AXP"},
	common.SectorTechnology:    {"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META"},
	common.SectorHealthcare:    {"JNJ", "PFE", "UNH", "ABT", "TMO", "MRK"},
	common.SectorEnergy:        {"XOM", "CVX", "COP", "EOG", "SLB"},
	common.SectorConsumerDisc:  {"AMZN", "TSLA", "HD", "MCD", "NKE"},
	common.SectorConsumerStap:  {"PG", "KO", "PEP", "WMT", "COST"},
	common.SectorIndustrials:   {"BA", "CAT", "GE", "HON", "UPS"},
	common.SectorMaterials:     {"LIN", "APD", "SHW", "FCX", "NEM"},
	common.SectorCommunication: {"GOOGL", "META", "NFLX", "DIS", "VZ"},
	common.SectorUtilities:     {"NEE", "DUK", "SO", "D", "AEP"},
	common.SectorRealEstate:    {"AMT", "PLD", "CCI", "EQIX", "SPG"},
	common.SectorInternational: {"BABA", "TSM", "ASML", "JD", "NIO"},
}

// broadSectorPhrases maps whole-sector phrasings to the sector they ask
// about. A hit marks the query as a broad sector question.
var broadSectorPhrases = map[string]string{
	"banking stocks":    common.SectorBanking,
	"banking sector":    common.SectorBanking,
	"bank stocks":       common.SectorBanking,
	"financial stocks":  common.SectorFinancial,
	"financial sector":  common.SectorFinancial,
	"tech stocks":       common.SectorTechnology,
	"tech sector":       common.SectorTechnology,
	"technology stocks":  common.SectorTechnology,
	"technology sector":  common.SectorTechnology,
	"healthcare stocks":  common.SectorHealthcare,
	"healthcare sector":  common.SectorHealthcare,
	"health care stocks": common.SectorHealthcare,
	"energy stocks":      common.SectorEnergy,
	"energy sector":      common.SectorEnergy,
	"oil stocks":         common.SectorEnergy,
	"utility stocks":     common.SectorUtilities,
	"utilities sector":   common.SectorUtilities,
	"real estate stocks": common.SectorRealEstate,
	"real estate sector": common.SectorRealEstate,
	"industrial stocks":  common.SectorIndustrials,
	"industrials sector": common.SectorIndustrials,
}

// sectorSummaryQueries are hand-composed semantic-search queries used instead
// of the raw user question when answering in sector mode.
var sectorSummaryQueries = map[string]string{
	common.SectorBanking:    "banking sector stocks performance JPMorgan Wells Fargo Goldman Sachs Bank of America Citigroup earnings financial results",
	common.SectorHealthcare: "healthcare sector stocks performance Johnson Johnson Pfizer UnitedHealth Abbott Thermo Fisher medical pharmaceutical biotech earnings",
	common.SectorTechnology: "technology sector stocks performance Apple Microsoft Google Amazon Meta Tesla Nvidia tech earnings software hardware",
	common.SectorEnergy:     "energy sector stocks performance ExxonMobil Chevron ConocoPhillips oil gas renewable earnings",
	common.SectorFinancial:  "financial sector stocks performance banks insurance investment earnings financial services",
}

// sectorFilterKeywords are the terms used by the sector-mode relevance
// re-filter. The first three entries of each list are the strongest signals.
var sectorFilterKeywords = map[string][]string{
	common.SectorBanking:    {"bank", "banking", "JPM", "BAC", "WFC", "citigroup", "goldman sachs", "wells fargo", "jpmorgan"},
	common.SectorTechnology: {"tech", "technology", "AAPL", "MSFT", "GOOGL", "apple", "microsoft", "google", "software", "hardware"},
	common.SectorHealthcare: {"healthcare", "health", "medical", "pharmaceutical", "pharma", "biotech", "drug", "medicine", "clinical", "JNJ", "PFE", "UNH", "ABT", "TMO", "johnson", "pfizer", "abbott", "unitedhealth", "thermo fisher"},
	common.SectorEnergy:     {"energy", "oil", "gas", "renewable", "petroleum", "drilling"},
	common.SectorFinancial:  {"financial", "finance", "bank", "investment", "insurance"},
}
